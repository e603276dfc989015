package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// PricingRule persists a named rule with its typed conditions and markup actions as JSON.
type PricingRule struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	ProductType enums.ProductType `gorm:"column:product_type;not null"`
	Conditions  datatypes.JSON    `gorm:"column:conditions;type:jsonb;not null"`
	Actions     datatypes.JSON    `gorm:"column:actions;type:jsonb;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (PricingRule) TableName() string { return "pricing_rules" }

func (r *PricingRule) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
