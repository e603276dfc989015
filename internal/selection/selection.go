package selection

import (
	"github.com/shopspring/decimal"
)

// Selection is the full set of configurable axes for one product.
type Selection struct {
	Metals []SelectedMetal `json:"metals"`
	Stone  StoneSelection  `json:"stone"`
}

// Purity is one purity chosen for a metal type with the metal weight it is sold at.
type Purity struct {
	PurityID string          `json:"purity_id"`
	Weight   decimal.Decimal `json:"weight"`
}

// Valid reports whether the purity counts toward variant generation.
func (p Purity) Valid() bool {
	return p.PurityID != "" && p.Weight.IsPositive()
}

// SelectedMetal is one metal type with its colors and purities.
type SelectedMetal struct {
	MetalTypeID string   `json:"metal_type_id"`
	ColorIDs    []string `json:"color_ids"`
	Purities    []Purity `json:"purities"`
}

// ValidPurities returns the purities that contribute variants, in selection order.
func (m SelectedMetal) ValidPurities() []Purity {
	out := make([]Purity, 0, len(m.Purities))
	seen := make(map[string]struct{}, len(m.Purities))
	for _, p := range m.Purities {
		if !p.Valid() {
			continue
		}
		if _, dup := seen[p.PurityID]; dup {
			continue
		}
		seen[p.PurityID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Colors returns the distinct color IDs in selection order.
func (m SelectedMetal) Colors() []string {
	return Unique(m.ColorIDs)
}

// GlobalColorSelection is the flat call shape where one color set applies to every metal type.
type GlobalColorSelection struct {
	MetalTypeIDs []string            `json:"metal_type_ids"`
	ColorIDs     []string            `json:"color_ids"`
	Purities     map[string][]Purity `json:"purities"`
}

// Expand converts the global shape into per-metal selections in metal type order.
func (g GlobalColorSelection) Expand() []SelectedMetal {
	out := make([]SelectedMetal, 0, len(g.MetalTypeIDs))
	for _, metalTypeID := range g.MetalTypeIDs {
		out = append(out, SelectedMetal{
			MetalTypeID: metalTypeID,
			ColorIDs:    append([]string(nil), g.ColorIDs...),
			Purities:    append([]Purity(nil), g.Purities[metalTypeID]...),
		})
	}
	return out
}

// Unique drops empty and repeated IDs while keeping first-seen order.
func Unique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Clone returns a deep copy so callers can prune without aliasing the input.
func (s Selection) Clone() Selection {
	out := Selection{Metals: make([]SelectedMetal, len(s.Metals))}
	for i, m := range s.Metals {
		out.Metals[i] = SelectedMetal{
			MetalTypeID: m.MetalTypeID,
			ColorIDs:    append([]string(nil), m.ColorIDs...),
			Purities:    append([]Purity(nil), m.Purities...),
		}
	}
	out.Stone = s.Stone.Clone()
	return out
}
