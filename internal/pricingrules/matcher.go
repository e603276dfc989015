package pricingrules

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// ProductFacts are the product-level ID sets that set conditions inspect.
type ProductFacts struct {
	CategoryIDs []string
	TagIDs      []string
	BadgeIDs    []string
}

// Matches reports whether every condition holds for the product and variant.
// An empty condition list matches.
func Matches(product ProductFacts, variant models.VariantMetadata, conditions []Condition) bool {
	for _, c := range conditions {
		if c == nil || !c.Matches(product, variant) {
			return false
		}
	}
	return true
}

func (c SetCondition) Matches(product ProductFacts, _ models.VariantMetadata) bool {
	var have []string
	switch c.Kind {
	case enums.ConditionTypeCategory:
		have = product.CategoryIDs
	case enums.ConditionTypeTags:
		have = product.TagIDs
	case enums.ConditionTypeBadges:
		have = product.BadgeIDs
	default:
		return false
	}
	if len(c.IDs) == 0 {
		return false
	}

	present := make(map[string]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}

	switch c.MatchType {
	case enums.MatchTypeAny:
		for _, id := range c.IDs {
			if _, ok := present[id]; ok {
				return true
			}
		}
		return false
	case enums.MatchTypeAll:
		for _, id := range c.IDs {
			if _, ok := present[id]; !ok {
				return false
			}
		}
		return true
	}
	return false
}

func (c AttributeCondition) Matches(_ ProductFacts, variant models.VariantMetadata) bool {
	var value string
	switch c.Kind {
	case enums.ConditionTypeMetalType:
		value = variant.MetalTypeID
	case enums.ConditionTypeMetalColor:
		value = variant.MetalColorID
	case enums.ConditionTypeMetalPurity:
		value = variant.MetalPurityID
	case enums.ConditionTypeDiamondClarityColor:
		if variant.DiamondClarityColorID == nil {
			return false
		}
		value = *variant.DiamondClarityColorID
	default:
		return false
	}
	if value == "" {
		return false
	}
	for _, id := range c.IDs {
		if id == value {
			return true
		}
	}
	return false
}

// Matches uses a closed interval: both bounds are inclusive.
func (c RangeCondition) Matches(_ ProductFacts, variant models.VariantMetadata) bool {
	var value decimal.Decimal
	switch c.Kind {
	case enums.ConditionTypeDiamondCarat:
		value = variant.DiamondCarat
	case enums.ConditionTypeGemstoneCarat:
		value = variant.GemstoneCarat
	case enums.ConditionTypeMetalWeight:
		value = variant.MetalWeight
	case enums.ConditionTypePearlGram:
		value = variant.PearlGrams
	default:
		return false
	}
	return value.GreaterThanOrEqual(c.From) && value.LessThanOrEqual(c.To)
}

func (UnknownCondition) Matches(ProductFacts, models.VariantMetadata) bool {
	return false
}
