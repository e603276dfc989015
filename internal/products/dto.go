package product

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/jewelcraft-backend/internal/catalog"
	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	"github.com/angelmondragon/jewelcraft-backend/pkg/pagination"
)

// PreviewVariantsInput is a selection edit submitted by the builder.
type PreviewVariantsInput struct {
	Selection        selection.Selection `json:"selection"`
	DefaultVariantID *string             `json:"default_variant_id"`
}

// VariantPreview is the regenerated matrix with review rows.
type VariantPreview struct {
	Selection        selection.Selection  `json:"selection"`
	Variants         []variants.Variant   `json:"variants"`
	Count            int                  `json:"count"`
	DefaultVariantID *string              `json:"default_variant_id"`
	Rows             []catalog.VariantRow `json:"rows"`
}

// CreateProductInput is a complete builder payload plus the rates used to price variants.
type CreateProductInput struct {
	ProductType      enums.ProductType `json:"product_type"`
	Draft            validation.Draft  `json:"draft"`
	DefaultVariantID *string           `json:"default_variant_id"`
	PriceSheet       PriceSheet        `json:"price_sheet"`
}

// CreateProductResult is returned once a product and its variants are stored.
type CreateProductResult struct {
	Product           ProductDTO         `json:"product"`
	GeneratedVariants []variants.Variant `json:"generatedVariants"`
	DefaultVariantID  string             `json:"defaultVariantId"`
}

// ListProductsInput captures paging and filtering for the product list.
type ListProductsInput struct {
	ProductType *enums.ProductType
	Pagination  pagination.Params
}

// ProductList is one page of products.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ProductDTO is the API shape of a stored product.
type ProductDTO struct {
	ID                uuid.UUID           `json:"id"`
	SKU               string              `json:"sku"`
	Title             string              `json:"title"`
	ProductType       string              `json:"product_type"`
	CategoryIDs       []string            `json:"category_ids"`
	TagIDs            []string            `json:"tag_ids"`
	BadgeIDs          []string            `json:"badge_ids"`
	DefaultVariantKey *string             `json:"default_variant_id"`
	Length            string              `json:"length"`
	Width             string              `json:"width"`
	Height            string              `json:"height"`
	HasEngraving      bool                `json:"has_engraving"`
	EngravingMaxChars *int                `json:"engraving_max_chars,omitempty"`
	HasSizeChart      bool                `json:"has_size_chart"`
	SizeChartGroupID  *string             `json:"size_chart_group_id,omitempty"`
	Selection         selection.Selection `json:"selection"`
	Variants          []VariantDTO        `json:"variants"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// VariantDTO is the API shape of a stored variant.
type VariantDTO struct {
	ID              uuid.UUID                     `json:"id"`
	VariantKey      string                        `json:"variant_key"`
	Price           decimal.Decimal               `json:"price"`
	PriceComponents models.VariantPriceComponents `json:"price_components"`
	Metadata        models.VariantMetadata        `json:"metadata"`
	IsDefault       bool                          `json:"is_default"`
	Position        int                           `json:"position"`
}

func toProductDTO(p models.Product) (ProductDTO, error) {
	dto := ProductDTO{
		ID:                p.ID,
		SKU:               p.SKU,
		Title:             p.Title,
		ProductType:       p.ProductType.String(),
		CategoryIDs:       nonNil(p.CategoryIDs),
		TagIDs:            nonNil(p.TagIDs),
		BadgeIDs:          nonNil(p.BadgeIDs),
		DefaultVariantKey: p.DefaultVariantKey,
		Length:            p.Length,
		Width:             p.Width,
		Height:            p.Height,
		HasEngraving:      p.HasEngraving,
		EngravingMaxChars: p.EngravingMaxChars,
		HasSizeChart:      p.HasSizeChart,
		SizeChartGroupID:  p.SizeChartGroupID,
		Variants:          make([]VariantDTO, 0, len(p.Variants)),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if len(p.Selection) > 0 {
		if err := json.Unmarshal(p.Selection, &dto.Selection); err != nil {
			return ProductDTO{}, err
		}
	}
	for _, v := range p.Variants {
		out := VariantDTO{
			ID:         v.ID,
			VariantKey: v.VariantKey,
			Price:      v.Price,
			IsDefault:  v.IsDefault,
			Position:   v.Position,
		}
		if len(v.PriceComponents) > 0 {
			if err := json.Unmarshal(v.PriceComponents, &out.PriceComponents); err != nil {
				return ProductDTO{}, err
			}
		}
		if len(v.Metadata) > 0 {
			if err := json.Unmarshal(v.Metadata, &out.Metadata); err != nil {
				return ProductDTO{}, err
			}
		}
		dto.Variants = append(dto.Variants, out)
	}
	return dto, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
