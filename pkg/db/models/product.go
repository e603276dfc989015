package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// Product represents a catalog listing together with the selection its variants were generated from.
type Product struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SKU               string            `gorm:"column:sku;not null"`
	Title             string            `gorm:"column:title;not null"`
	ProductType       enums.ProductType `gorm:"column:product_type;not null"`
	CategoryIDs       pq.StringArray    `gorm:"column:category_ids;type:text[];not null"`
	TagIDs            pq.StringArray    `gorm:"column:tag_ids;type:text[];not null"`
	BadgeIDs          pq.StringArray    `gorm:"column:badge_ids;type:text[];not null"`
	DefaultVariantKey *string           `gorm:"column:default_variant_key"`
	Length            string            `gorm:"column:length;not null"`
	Width             string            `gorm:"column:width;not null"`
	Height            string            `gorm:"column:height;not null"`
	HasEngraving      bool              `gorm:"column:has_engraving;not null;default:false"`
	EngravingMaxChars *int              `gorm:"column:engraving_max_chars"`
	HasSizeChart      bool              `gorm:"column:has_size_chart;not null;default:false"`
	SizeChartGroupID  *string           `gorm:"column:size_chart_group_id"`
	Selection         datatypes.JSON    `gorm:"column:selection;type:jsonb;not null"`
	Variants          []ProductVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns an ID when the caller did not.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
