package variants

import (
	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
)

// ResolveDefault keeps previous when it is still generated, otherwise picks the first variant.
// It returns nil only when there are no variants.
func ResolveDefault(variants []Variant, previous *string) *string {
	if len(variants) == 0 {
		return nil
	}
	if previous != nil {
		if _, ok := Find(variants, *previous); ok {
			id := *previous
			return &id
		}
	}
	id := variants[0].ID
	return &id
}

// State is the generator-owned slice of a product draft.
type State struct {
	Selection        selection.Selection `json:"selection"`
	Variants         []Variant           `json:"variants"`
	DefaultVariantID *string             `json:"default_variant_id"`
}

// OnSelectionChanged applies a metal or stone edit: it prunes orphaned pricings, regenerates
// the matrix and repairs the default in one step. The input state is not mutated.
func OnSelectionChanged(state State, sel selection.Selection) State {
	next := sel.Clone()
	next.Stone.PrunePricings()

	matrix := Generate(next)
	return State{
		Selection:        next,
		Variants:         matrix.Variants,
		DefaultVariantID: ResolveDefault(matrix.Variants, state.DefaultVariantID),
	}
}

// SetDefault selects id as the default when it belongs to the current variants.
func (s State) SetDefault(id string) (State, bool) {
	if _, ok := Find(s.Variants, id); !ok {
		return s, false
	}
	s.DefaultVariantID = &id
	return s, true
}
