package variants

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
)

const idSeparator = "-"

// Variant is one sellable combination derived from a selection.
type Variant struct {
	ID                    string          `json:"id"`
	MetalTypeID           string          `json:"metal_type_id"`
	MetalColorID          string          `json:"metal_color_id"`
	MetalPurityID         string          `json:"metal_purity_id"`
	MetalWeight           decimal.Decimal `json:"metal_weight"`
	DiamondClarityColorID *string         `json:"diamond_clarity_color_id"`
	GemstoneColorID       *string         `json:"gemstone_color_id"`
}

// Matrix is the generated variant list and its size.
type Matrix struct {
	Variants []Variant `json:"variants"`
	Count    int       `json:"count"`
}

// Generate expands sel into variants in metal type, color, purity, diamond, gemstone order.
// Incomplete axes produce an empty matrix rather than an error.
func Generate(sel selection.Selection) Matrix {
	diamondAxis := optionalAxis(sel.Stone.Diamond.Axis())
	gemstoneAxis := optionalAxis(sel.Stone.Gemstone.Axis())

	out := make([]Variant, 0, Count(sel))
	for _, metal := range distinctMetals(sel.Metals) {
		purities := metal.ValidPurities()
		for _, colorID := range metal.Colors() {
			for _, purity := range purities {
				for _, diamond := range diamondAxis {
					for _, gemstone := range gemstoneAxis {
						out = append(out, Variant{
							ID:                    buildID(metal.MetalTypeID, colorID, purity.PurityID, diamond, gemstone),
							MetalTypeID:           metal.MetalTypeID,
							MetalColorID:          colorID,
							MetalPurityID:         purity.PurityID,
							MetalWeight:           purity.Weight,
							DiamondClarityColorID: diamond,
							GemstoneColorID:       gemstone,
						})
					}
				}
			}
		}
	}
	return Matrix{Variants: out, Count: len(out)}
}

// Count returns the matrix size without materializing the variants.
func Count(sel selection.Selection) int {
	perMetal := 0
	for _, metal := range distinctMetals(sel.Metals) {
		perMetal += len(metal.Colors()) * len(metal.ValidPurities())
	}
	return perMetal * max(1, len(sel.Stone.Diamond.Axis())) * max(1, len(sel.Stone.Gemstone.Axis()))
}

// optionalAxis turns an axis into pointers, substituting a single nil placeholder when empty.
func optionalAxis(ids []string) []*string {
	if len(ids) == 0 {
		return []*string{nil}
	}
	out := make([]*string, len(ids))
	for i := range ids {
		id := ids[i]
		out[i] = &id
	}
	return out
}

// distinctMetals keeps the first selection for each metal type.
func distinctMetals(metals []selection.SelectedMetal) []selection.SelectedMetal {
	out := make([]selection.SelectedMetal, 0, len(metals))
	seen := make(map[string]struct{}, len(metals))
	for _, m := range metals {
		if m.MetalTypeID == "" {
			continue
		}
		if _, dup := seen[m.MetalTypeID]; dup {
			continue
		}
		seen[m.MetalTypeID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func buildID(metalTypeID, colorID, purityID string, diamond, gemstone *string) string {
	parts := []string{metalTypeID, colorID, purityID}
	if diamond != nil {
		parts = append(parts, *diamond)
	}
	if gemstone != nil {
		parts = append(parts, *gemstone)
	}
	return strings.Join(parts, idSeparator)
}

// DuplicateIDs returns every ID shared by more than one variant, in first-seen order.
// Attribute IDs may contain the separator, so distinct combinations can join to the same key.
func DuplicateIDs(list []Variant) []string {
	seen := make(map[string]int, len(list))
	var dups []string
	for _, v := range list {
		seen[v.ID]++
		if seen[v.ID] == 2 {
			dups = append(dups, v.ID)
		}
	}
	return dups
}

// Find returns the variant with id, if present.
func Find(variants []Variant, id string) (Variant, bool) {
	for _, v := range variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
