package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductVariant stores one generated variant with its priced breakdown.
// PriceComponents and Metadata hold JSON payloads consumed by pricing rule previews.
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantKey      string          `gorm:"column:variant_key;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	PriceComponents datatypes.JSON  `gorm:"column:price_components;type:jsonb;not null"`
	Metadata        datatypes.JSON  `gorm:"column:metadata;type:jsonb;not null"`
	IsDefault       bool            `gorm:"column:is_default;not null;default:false"`
	Position        int             `gorm:"column:position;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VariantPriceComponents is the JSON shape of ProductVariant.PriceComponents.
type VariantPriceComponents struct {
	Making   decimal.Decimal `json:"making"`
	Diamond  decimal.Decimal `json:"diamond"`
	Gemstone decimal.Decimal `json:"gemstone"`
	Pearl    decimal.Decimal `json:"pearl"`
}

// VariantMetadata is the JSON shape of ProductVariant.Metadata.
type VariantMetadata struct {
	MetalTypeID           string          `json:"metal_type_id"`
	MetalColorID          string          `json:"metal_color_id"`
	MetalPurityID         string          `json:"metal_purity_id"`
	MetalWeight           decimal.Decimal `json:"metal_weight"`
	DiamondClarityColorID *string         `json:"diamond_clarity_color_id,omitempty"`
	GemstoneColorID       *string         `json:"gemstone_color_id,omitempty"`
	DiamondCarat          decimal.Decimal `json:"diamond_carat"`
	GemstoneCarat         decimal.Decimal `json:"gemstone_carat"`
	PearlGrams            decimal.Decimal `json:"pearl_grams"`
}
