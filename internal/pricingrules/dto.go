package pricingrules

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// RuleDTO is the API representation of a persisted pricing rule.
type RuleDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	ProductType enums.ProductType `json:"product_type"`
	Conditions  []ConditionState  `json:"conditions"`
	Actions     Actions           `json:"actions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type RuleList struct {
	Rules      []RuleDTO `json:"rules"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// CreateRuleInput is the validated payload to create a rule.
type CreateRuleInput struct {
	Name        string
	ProductType enums.ProductType
	Conditions  []ConditionState
	Actions     Actions
}

// PreviewInput describes a draft rule to preview against stored products.
type PreviewInput struct {
	ProductType enums.ProductType `json:"product_type"`
	Conditions  []ConditionState  `json:"conditions"`
	Actions     Actions           `json:"actions"`
}

func toRuleDTO(m models.PricingRule) (RuleDTO, error) {
	dto := RuleDTO{
		ID:          m.ID,
		Name:        m.Name,
		ProductType: m.ProductType,
		Conditions:  []ConditionState{},
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &dto.Conditions); err != nil {
			return RuleDTO{}, fmt.Errorf("decode conditions: %w", err)
		}
	}
	if len(m.Actions) > 0 {
		if err := json.Unmarshal(m.Actions, &dto.Actions); err != nil {
			return RuleDTO{}, fmt.Errorf("decode actions: %w", err)
		}
	}
	return dto, nil
}

// toSnapshot decodes the JSON columns of a stored product and its variants.
func toSnapshot(p models.Product) (ProductSnapshot, error) {
	snap := ProductSnapshot{
		ID:    p.ID,
		SKU:   p.SKU,
		Title: p.Title,
		Facts: ProductFacts{
			CategoryIDs: []string(p.CategoryIDs),
			TagIDs:      []string(p.TagIDs),
			BadgeIDs:    []string(p.BadgeIDs),
		},
		Variants: make([]VariantSnapshot, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		vs := VariantSnapshot{ID: v.ID, VariantKey: v.VariantKey, Price: v.Price}
		if len(v.PriceComponents) > 0 {
			if err := json.Unmarshal(v.PriceComponents, &vs.Components); err != nil {
				return ProductSnapshot{}, fmt.Errorf("variant %s price_components: %w", v.ID, err)
			}
		}
		if len(v.Metadata) > 0 {
			if err := json.Unmarshal(v.Metadata, &vs.Metadata); err != nil {
				return ProductSnapshot{}, fmt.Errorf("variant %s metadata: %w", v.ID, err)
			}
		}
		snap.Variants = append(snap.Variants, vs)
	}
	return snap, nil
}
