package selection

import (
	"github.com/shopspring/decimal"
)

// StoneSelection groups the three independent stone sub-selections.
type StoneSelection struct {
	Diamond  DiamondSelection  `json:"diamond"`
	Gemstone GemstoneSelection `json:"gemstone"`
	Pearl    PearlSelection    `json:"pearl"`
}

// DiamondEntry is one diamond setting. Pricings maps clarity/color ID to pricing ID.
type DiamondEntry struct {
	ShapeID    string            `json:"shape_id"`
	TotalCarat decimal.Decimal   `json:"total_carat"`
	NoOfStones int               `json:"no_of_stones"`
	Pricings   map[string]string `json:"pricings"`
}

type DiamondSelection struct {
	HasDiamond      bool           `json:"has_diamond"`
	ClarityColorIDs []string       `json:"clarity_color_ids"`
	Entries         []DiamondEntry `json:"entries"`
}

// GemstoneEntry is one gemstone setting. Pricings maps color ID to pricing ID.
type GemstoneEntry struct {
	TypeID     string            `json:"type_id"`
	ShapeID    string            `json:"shape_id"`
	TotalCarat decimal.Decimal   `json:"total_carat"`
	NoOfStones int               `json:"no_of_stones"`
	Pricings   map[string]string `json:"pricings"`
}

type GemstoneSelection struct {
	HasGemstone bool            `json:"has_gemstone"`
	QualityID   string          `json:"quality_id"`
	ColorIDs    []string        `json:"color_ids"`
	Entries     []GemstoneEntry `json:"entries"`
}

type PearlEntry struct {
	TypeID     string          `json:"type_id"`
	QualityID  string          `json:"quality_id"`
	NoOfPearls int             `json:"no_of_pearls"`
	TotalGrams decimal.Decimal `json:"total_grams"`
	Amount     decimal.Decimal `json:"amount"`
}

// PearlSelection is priced at the product level and never expands variants.
type PearlSelection struct {
	HasPearl bool         `json:"has_pearl"`
	Entries  []PearlEntry `json:"entries"`
}

// Axis returns the clarity/color IDs that expand variants, or nil when the axis is not in play.
func (d DiamondSelection) Axis() []string {
	if !d.HasDiamond {
		return nil
	}
	return Unique(d.ClarityColorIDs)
}

// Axis returns the gemstone color IDs that expand variants, or nil when the axis is not in play.
func (g GemstoneSelection) Axis() []string {
	if !g.HasGemstone {
		return nil
	}
	return Unique(g.ColorIDs)
}

// SetClarityColors replaces the selected clarity/colors and drops pricings for removed ones.
func (d *DiamondSelection) SetClarityColors(ids []string) {
	d.ClarityColorIDs = Unique(ids)
	d.PrunePricings()
}

// RemoveClarityColor deselects one clarity/color and removes its pricing from every entry.
func (d *DiamondSelection) RemoveClarityColor(id string) {
	d.ClarityColorIDs = without(d.ClarityColorIDs, id)
	for i := range d.Entries {
		delete(d.Entries[i].Pricings, id)
	}
}

// PrunePricings removes pricing keys that are no longer selected clarity/colors.
func (d *DiamondSelection) PrunePricings() {
	active := toSet(d.ClarityColorIDs)
	for i := range d.Entries {
		pruneKeys(d.Entries[i].Pricings, active)
	}
}

// SetColors replaces the selected gemstone colors and drops pricings for removed ones.
func (g *GemstoneSelection) SetColors(ids []string) {
	g.ColorIDs = Unique(ids)
	g.PrunePricings()
}

// RemoveColor deselects one gemstone color and removes its pricing from every entry.
func (g *GemstoneSelection) RemoveColor(id string) {
	g.ColorIDs = without(g.ColorIDs, id)
	for i := range g.Entries {
		delete(g.Entries[i].Pricings, id)
	}
}

// PrunePricings removes pricing keys that are no longer selected gemstone colors.
func (g *GemstoneSelection) PrunePricings() {
	active := toSet(g.ColorIDs)
	for i := range g.Entries {
		pruneKeys(g.Entries[i].Pricings, active)
	}
}

// PrunePricings normalizes every entry's pricings against the current selection.
func (s *StoneSelection) PrunePricings() {
	s.Diamond.PrunePricings()
	s.Gemstone.PrunePricings()
}

// DiamondCarat is the total diamond carat weight, zero when diamonds are disabled.
func (s StoneSelection) DiamondCarat() decimal.Decimal {
	total := decimal.Zero
	if !s.Diamond.HasDiamond {
		return total
	}
	for _, e := range s.Diamond.Entries {
		total = total.Add(e.TotalCarat)
	}
	return total
}

// GemstoneCarat is the total gemstone carat weight, zero when gemstones are disabled.
func (s StoneSelection) GemstoneCarat() decimal.Decimal {
	total := decimal.Zero
	if !s.Gemstone.HasGemstone {
		return total
	}
	for _, e := range s.Gemstone.Entries {
		total = total.Add(e.TotalCarat)
	}
	return total
}

// PearlGrams is the total pearl weight in grams, zero when pearls are disabled.
func (s StoneSelection) PearlGrams() decimal.Decimal {
	total := decimal.Zero
	if !s.Pearl.HasPearl {
		return total
	}
	for _, e := range s.Pearl.Entries {
		total = total.Add(e.TotalGrams)
	}
	return total
}

// Clone returns a deep copy including the pricing maps.
func (s StoneSelection) Clone() StoneSelection {
	out := StoneSelection{
		Diamond: DiamondSelection{
			HasDiamond:      s.Diamond.HasDiamond,
			ClarityColorIDs: append([]string(nil), s.Diamond.ClarityColorIDs...),
		},
		Gemstone: GemstoneSelection{
			HasGemstone: s.Gemstone.HasGemstone,
			QualityID:   s.Gemstone.QualityID,
			ColorIDs:    append([]string(nil), s.Gemstone.ColorIDs...),
		},
		Pearl: PearlSelection{
			HasPearl: s.Pearl.HasPearl,
			Entries:  append([]PearlEntry(nil), s.Pearl.Entries...),
		},
	}
	for _, e := range s.Diamond.Entries {
		e.Pricings = cloneMap(e.Pricings)
		out.Diamond.Entries = append(out.Diamond.Entries, e)
	}
	for _, e := range s.Gemstone.Entries {
		e.Pricings = cloneMap(e.Pricings)
		out.Gemstone.Entries = append(out.Gemstone.Entries, e)
	}
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func pruneKeys(m map[string]string, active map[string]struct{}) {
	for key := range m {
		if _, ok := active[key]; !ok {
			delete(m, key)
		}
	}
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
