package pricingrules

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
)

// ProductSnapshot is a persisted product reduced to what a preview needs.
type ProductSnapshot struct {
	ID       uuid.UUID
	SKU      string
	Title    string
	Facts    ProductFacts
	Variants []VariantSnapshot
}

type VariantSnapshot struct {
	ID         uuid.UUID
	VariantKey string
	Price      decimal.Decimal
	Components CostComponents
	Metadata   models.VariantMetadata
}

// VariantPreview is one matched variant with its hypothetical price.
type VariantPreview struct {
	VariantID  uuid.UUID `json:"variant_id"`
	VariantKey string    `json:"variant_key"`
	PriceChange
}

// ProductPreview groups the matched variants of one product.
type ProductPreview struct {
	ProductID       uuid.UUID        `json:"product_id"`
	SKU             string           `json:"sku"`
	Title           string           `json:"title"`
	MatchedVariants int              `json:"matched_variants"`
	MinCurrentPrice decimal.Decimal  `json:"min_current_price"`
	MaxCurrentPrice decimal.Decimal  `json:"max_current_price"`
	MinNewPrice     decimal.Decimal  `json:"min_new_price"`
	MaxNewPrice     decimal.Decimal  `json:"max_new_price"`
	Variants        []VariantPreview `json:"variants"`
}

// Preview is the applicable-products listing for a draft rule.
type Preview struct {
	Products        []ProductPreview `json:"products"`
	MatchedProducts int              `json:"matched_products"`
	MatchedVariants int              `json:"matched_variants"`
}

// BuildPreview matches every variant against conditions and prices the matches with actions.
// Products without a matching variant are left out. Input order is preserved.
func BuildPreview(products []ProductSnapshot, conditions []Condition, actions Actions) Preview {
	out := Preview{Products: []ProductPreview{}}
	for _, p := range products {
		var group *ProductPreview
		for _, v := range p.Variants {
			if !Matches(p.Facts, v.Metadata, conditions) {
				continue
			}
			change := ComputeNewPrice(v.Price, v.Components, actions)
			if group == nil {
				group = &ProductPreview{
					ProductID:       p.ID,
					SKU:             p.SKU,
					Title:           p.Title,
					MinCurrentPrice: change.Current,
					MaxCurrentPrice: change.Current,
					MinNewPrice:     change.New,
					MaxNewPrice:     change.New,
				}
			}
			group.MinCurrentPrice = decimal.Min(group.MinCurrentPrice, change.Current)
			group.MaxCurrentPrice = decimal.Max(group.MaxCurrentPrice, change.Current)
			group.MinNewPrice = decimal.Min(group.MinNewPrice, change.New)
			group.MaxNewPrice = decimal.Max(group.MaxNewPrice, change.New)
			group.Variants = append(group.Variants, VariantPreview{
				VariantID:   v.ID,
				VariantKey:  v.VariantKey,
				PriceChange: change.Rounded(),
			})
			group.MatchedVariants++
		}
		if group == nil {
			continue
		}
		out.Products = append(out.Products, *group)
		out.MatchedProducts++
		out.MatchedVariants += group.MatchedVariants
	}
	return out
}
