package validation

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// FieldErrors maps a field path to its message. An empty map means the section is complete.
type FieldErrors map[string]string

const (
	msgRequired  = "is required"
	msgPositive  = "must be greater than 0"
	msgSelectOne = "select at least one"
)

// ValidateTab runs the completeness predicate for one tab.
func ValidateTab(tab enums.FormTab, d Draft) FieldErrors {
	switch tab {
	case enums.FormTabBasic:
		return ValidateBasic(d.Basic)
	case enums.FormTabMetal:
		return ValidateMetal(d.Selection.Metals)
	case enums.FormTabStone:
		return ValidateStone(d.Selection.Stone)
	case enums.FormTabAttributes:
		return ValidateAttributes(d.Attributes)
	case enums.FormTabVariants, enums.FormTabMedia, enums.FormTabSEO:
		return FieldErrors{}
	default:
		return FieldErrors{"tab": fmt.Sprintf("unknown tab %q", tab)}
	}
}

func ValidateBasic(b BasicInfo) FieldErrors {
	errs := FieldErrors{}
	required := []struct {
		field string
		value string
	}{
		{"title", b.Title},
		{"sku", b.SKU},
		{"length", b.Length},
		{"width", b.Width},
		{"height", b.Height},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = msgRequired
		}
	}
	if b.HasEngraving && (b.EngravingMaxChars == nil || *b.EngravingMaxChars <= 0) {
		errs["engraving_max_chars"] = msgRequired
	}
	if b.HasSizeChart && (b.SizeChartGroupID == nil || strings.TrimSpace(*b.SizeChartGroupID) == "") {
		errs["size_chart_group_id"] = msgRequired
	}
	return errs
}

// ValidateMetal requires one metal with a color and a weighted purity, a positive
// weight on every selected purity, and each metal type at most once.
func ValidateMetal(metals []selection.SelectedMetal) FieldErrors {
	errs := FieldErrors{}
	complete := false
	firstIndex := make(map[string]int, len(metals))
	for i, m := range metals {
		if m.MetalTypeID != "" {
			if first, dup := firstIndex[m.MetalTypeID]; dup {
				errs[fmt.Sprintf("metals[%d].metal_type_id", i)] = fmt.Sprintf("duplicates metals[%d]", first)
			} else {
				firstIndex[m.MetalTypeID] = i
			}
		}
		for j, p := range m.Purities {
			if !p.Weight.IsPositive() {
				errs[fmt.Sprintf("metals[%d].purities[%d].weight", i, j)] = msgPositive
			}
		}
		if len(m.Colors()) > 0 && len(m.ValidPurities()) > 0 {
			complete = true
		}
	}
	if !complete {
		errs["metals"] = msgSelectOne + " metal with a color and a purity"
	}
	return errs
}

// ValidateStone is vacuously valid when no stone type is enabled.
func ValidateStone(s selection.StoneSelection) FieldErrors {
	errs := FieldErrors{}
	if s.Diamond.HasDiamond {
		validateDiamond(s.Diamond, errs)
	}
	if s.Gemstone.HasGemstone {
		validateGemstone(s.Gemstone, errs)
	}
	if s.Pearl.HasPearl {
		validatePearl(s.Pearl, errs)
	}
	return errs
}

func validateDiamond(d selection.DiamondSelection, errs FieldErrors) {
	active := selection.Unique(d.ClarityColorIDs)
	if len(active) == 0 {
		errs["diamond.clarity_color_ids"] = msgSelectOne + " clarity/color"
	}
	if len(d.Entries) == 0 {
		errs["diamond.entries"] = msgSelectOne + " diamond"
	}
	for i, e := range d.Entries {
		prefix := fmt.Sprintf("diamond.entries[%d]", i)
		if strings.TrimSpace(e.ShapeID) == "" {
			errs[prefix+".shape_id"] = msgRequired
		}
		if !e.TotalCarat.IsPositive() {
			errs[prefix+".total_carat"] = msgPositive
		}
		if e.NoOfStones <= 0 {
			errs[prefix+".no_of_stones"] = msgPositive
		}
		requirePricings(prefix, e.Pricings, active, errs)
	}
}

func validateGemstone(g selection.GemstoneSelection, errs FieldErrors) {
	active := selection.Unique(g.ColorIDs)
	if strings.TrimSpace(g.QualityID) == "" {
		errs["gemstone.quality_id"] = msgRequired
	}
	if len(active) == 0 {
		errs["gemstone.color_ids"] = msgSelectOne + " color"
	}
	if len(g.Entries) == 0 {
		errs["gemstone.entries"] = msgSelectOne + " gemstone"
	}
	for i, e := range g.Entries {
		prefix := fmt.Sprintf("gemstone.entries[%d]", i)
		if strings.TrimSpace(e.TypeID) == "" {
			errs[prefix+".type_id"] = msgRequired
		}
		if strings.TrimSpace(e.ShapeID) == "" {
			errs[prefix+".shape_id"] = msgRequired
		}
		if !e.TotalCarat.IsPositive() {
			errs[prefix+".total_carat"] = msgPositive
		}
		if e.NoOfStones <= 0 {
			errs[prefix+".no_of_stones"] = msgPositive
		}
		requirePricings(prefix, e.Pricings, active, errs)
	}
}

func validatePearl(p selection.PearlSelection, errs FieldErrors) {
	if len(p.Entries) == 0 {
		errs["pearl.entries"] = msgSelectOne + " pearl"
	}
	for i, e := range p.Entries {
		prefix := fmt.Sprintf("pearl.entries[%d]", i)
		if strings.TrimSpace(e.TypeID) == "" {
			errs[prefix+".type_id"] = msgRequired
		}
		if strings.TrimSpace(e.QualityID) == "" {
			errs[prefix+".quality_id"] = msgRequired
		}
		if e.NoOfPearls <= 0 {
			errs[prefix+".no_of_pearls"] = msgPositive
		}
		if !e.TotalGrams.IsPositive() {
			errs[prefix+".total_grams"] = msgPositive
		}
		if !e.Amount.IsPositive() {
			errs[prefix+".amount"] = msgPositive
		}
	}
}

func requirePricings(prefix string, pricings map[string]string, active []string, errs FieldErrors) {
	for _, id := range active {
		if strings.TrimSpace(pricings[id]) == "" {
			errs[prefix+".pricings."+id] = msgRequired
		}
	}
}

func ValidateAttributes(a Attributes) FieldErrors {
	errs := FieldErrors{}
	if len(selection.Unique(a.CategoryIDs)) == 0 {
		errs["category_ids"] = msgSelectOne + " category"
	}
	return errs
}
