package models

import (
	"time"

	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// AttributeValue is one selectable reference value (metal type, color, purity, category, ...).
type AttributeValue struct {
	ID        string              `gorm:"column:id;primaryKey"`
	Kind      enums.AttributeKind `gorm:"column:kind;not null"`
	Code      string              `gorm:"column:code;not null"`
	Name      string              `gorm:"column:name;not null"`
	Position  int                 `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (AttributeValue) TableName() string { return "attribute_values" }
