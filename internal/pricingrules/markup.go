package pricingrules

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var hundred = decimal.NewFromInt(100)

// CostComponents is a variant's price broken down by what it is made of.
type CostComponents struct {
	Making   decimal.Decimal `json:"making"`
	Diamond  decimal.Decimal `json:"diamond"`
	Gemstone decimal.Decimal `json:"gemstone"`
	Pearl    decimal.Decimal `json:"pearl"`
}

// Actions are per-component markup percentages.
type Actions struct {
	MakingChargeMarkup decimal.Decimal `json:"making_charge_markup"`
	DiamondMarkup      decimal.Decimal `json:"diamond_markup"`
	GemstoneMarkup     decimal.Decimal `json:"gemstone_markup"`
	PearlMarkup        decimal.Decimal `json:"pearl_markup"`
}

// Validate requires non-negative markups with at least one above zero.
func (a Actions) Validate() error {
	var err error
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"making_charge_markup", a.MakingChargeMarkup},
		{"diamond_markup", a.DiamondMarkup},
		{"gemstone_markup", a.GemstoneMarkup},
		{"pearl_markup", a.PearlMarkup},
	}
	positive := false
	for _, f := range fields {
		if f.value.IsNegative() {
			err = multierr.Append(err, fmt.Errorf("actions.%s must not be negative", f.name))
		}
		if f.value.IsPositive() {
			positive = true
		}
	}
	if !positive {
		err = multierr.Append(err, fmt.Errorf("actions: at least one markup must be greater than 0"))
	}
	return err
}

// PriceChange is the outcome of layering a rule's markups on a current price.
type PriceChange struct {
	Current           decimal.Decimal `json:"current_price"`
	New               decimal.Decimal `json:"new_price"`
	Difference        decimal.Decimal `json:"difference"`
	DifferencePercent decimal.Decimal `json:"difference_percent"`
}

// ComputeNewPrice adds only the incremental markup of each present component to current.
// DifferencePercent is zero when current is zero.
func ComputeNewPrice(current decimal.Decimal, components CostComponents, actions Actions) PriceChange {
	increment := uplift(components.Making, actions.MakingChargeMarkup).
		Add(uplift(components.Diamond, actions.DiamondMarkup)).
		Add(uplift(components.Gemstone, actions.GemstoneMarkup)).
		Add(uplift(components.Pearl, actions.PearlMarkup))

	newPrice := current.Add(increment)
	diff := newPrice.Sub(current)
	pct := decimal.Zero
	if !current.IsZero() {
		pct = diff.Div(current).Mul(hundred)
	}
	return PriceChange{
		Current:           current,
		New:               newPrice,
		Difference:        diff,
		DifferencePercent: pct,
	}
}

// Rounded returns c with DifferencePercent rounded to two places for display.
func (c PriceChange) Rounded() PriceChange {
	c.DifferencePercent = c.DifferencePercent.Round(2)
	return c
}

// uplift returns component*(1+pct/100) - component for a present component.
func uplift(component, pct decimal.Decimal) decimal.Decimal {
	if !component.IsPositive() {
		return decimal.Zero
	}
	return component.Mul(decimal.NewFromInt(1).Add(pct.Div(hundred))).Sub(component)
}
