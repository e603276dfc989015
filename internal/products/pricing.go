package product

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
)

// PriceSheet carries the rates used to price generated variants.
// MetalRates is keyed by purity ID and StoneRates by stone pricing ID; both are per unit
// (gram or carat).
type PriceSheet struct {
	MetalRates    map[string]decimal.Decimal `json:"metal_rates"`
	MakingPerGram decimal.Decimal            `json:"making_per_gram"`
	StoneRates    map[string]decimal.Decimal `json:"stone_rates"`
}

// pricedVariant is a generated variant with its price breakdown.
type pricedVariant struct {
	Variant    variants.Variant
	Components models.VariantPriceComponents
	Price      decimal.Decimal
}

// priceVariants computes every variant's components and total. When any variant cannot be
// priced it returns the sorted missing rate keys instead; an entry without a pricing for the
// variant's stone option is reported as "pricing:<option id>".
func priceVariants(sel selection.Selection, list []variants.Variant, sheet PriceSheet) ([]pricedVariant, []string) {
	missing := map[string]struct{}{}
	rate := func(rates map[string]decimal.Decimal, key string) decimal.Decimal {
		r, ok := rates[key]
		if !ok {
			missing[key] = struct{}{}
		}
		return r
	}
	stoneRate := func(pricings map[string]string, optionID string) decimal.Decimal {
		pricingID, ok := pricings[optionID]
		if !ok || pricingID == "" {
			missing["pricing:"+optionID] = struct{}{}
			return decimal.Zero
		}
		return rate(sheet.StoneRates, pricingID)
	}

	pearl := decimal.Zero
	if sel.Stone.Pearl.HasPearl {
		for _, e := range sel.Stone.Pearl.Entries {
			pearl = pearl.Add(e.Amount)
		}
	}

	out := make([]pricedVariant, 0, len(list))
	for _, v := range list {
		metal := rate(sheet.MetalRates, v.MetalPurityID).Mul(v.MetalWeight)
		components := models.VariantPriceComponents{
			Making:   sheet.MakingPerGram.Mul(v.MetalWeight).Round(2),
			Diamond:  decimal.Zero,
			Gemstone: decimal.Zero,
			Pearl:    pearl.Round(2),
		}
		if v.DiamondClarityColorID != nil {
			for _, e := range sel.Stone.Diamond.Entries {
				components.Diamond = components.Diamond.Add(stoneRate(e.Pricings, *v.DiamondClarityColorID).Mul(e.TotalCarat))
			}
			components.Diamond = components.Diamond.Round(2)
		}
		if v.GemstoneColorID != nil {
			for _, e := range sel.Stone.Gemstone.Entries {
				components.Gemstone = components.Gemstone.Add(stoneRate(e.Pricings, *v.GemstoneColorID).Mul(e.TotalCarat))
			}
			components.Gemstone = components.Gemstone.Round(2)
		}
		price := metal.Add(components.Making).Add(components.Diamond).Add(components.Gemstone).Add(components.Pearl)
		out = append(out, pricedVariant{Variant: v, Components: components, Price: price.Round(2)})
	}

	if len(missing) == 0 {
		return out, nil
	}
	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return nil, keys
}

// variantMetadata records the facts pricing rules match on.
func variantMetadata(sel selection.Selection, v variants.Variant) models.VariantMetadata {
	return models.VariantMetadata{
		MetalTypeID:           v.MetalTypeID,
		MetalColorID:          v.MetalColorID,
		MetalPurityID:         v.MetalPurityID,
		MetalWeight:           v.MetalWeight,
		DiamondClarityColorID: v.DiamondClarityColorID,
		GemstoneColorID:       v.GemstoneColorID,
		DiamondCarat:          sel.Stone.DiamondCarat(),
		GemstoneCarat:         sel.Stone.GemstoneCarat(),
		PearlGrams:            sel.Stone.PearlGrams(),
	}
}
