package enums

import "fmt"

// ConditionType identifies what a pricing rule condition inspects.
type ConditionType string

const (
	ConditionTypeCategory            ConditionType = "category"
	ConditionTypeTags                ConditionType = "tags"
	ConditionTypeBadges              ConditionType = "badges"
	ConditionTypeMetalType           ConditionType = "metal_type"
	ConditionTypeMetalColor          ConditionType = "metal_color"
	ConditionTypeMetalPurity         ConditionType = "metal_purity"
	ConditionTypeDiamondClarityColor ConditionType = "diamond_clarity_color"
	ConditionTypeDiamondCarat        ConditionType = "diamond_carat"
	ConditionTypeGemstoneCarat       ConditionType = "gemstone_carat"
	ConditionTypeMetalWeight         ConditionType = "metal_weight"
	ConditionTypePearlGram           ConditionType = "pearl_gram"
)

var validConditionTypes = []ConditionType{
	ConditionTypeCategory,
	ConditionTypeTags,
	ConditionTypeBadges,
	ConditionTypeMetalType,
	ConditionTypeMetalColor,
	ConditionTypeMetalPurity,
	ConditionTypeDiamondClarityColor,
	ConditionTypeDiamondCarat,
	ConditionTypeGemstoneCarat,
	ConditionTypeMetalWeight,
	ConditionTypePearlGram,
}

// String implements fmt.Stringer.
func (c ConditionType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionType.
func (c ConditionType) IsValid() bool {
	for _, candidate := range validConditionTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsSet reports whether the condition compares product-level ID sets with a match type.
func (c ConditionType) IsSet() bool {
	switch c {
	case ConditionTypeCategory, ConditionTypeTags, ConditionTypeBadges:
		return true
	}
	return false
}

// IsAttribute reports whether the condition checks a single variant attribute ID.
func (c ConditionType) IsAttribute() bool {
	switch c {
	case ConditionTypeMetalType, ConditionTypeMetalColor, ConditionTypeMetalPurity, ConditionTypeDiamondClarityColor:
		return true
	}
	return false
}

// IsRange reports whether the condition bounds a numeric aggregate.
func (c ConditionType) IsRange() bool {
	switch c {
	case ConditionTypeDiamondCarat, ConditionTypeGemstoneCarat, ConditionTypeMetalWeight, ConditionTypePearlGram:
		return true
	}
	return false
}

// ParseConditionType converts raw input into a ConditionType.
func ParseConditionType(value string) (ConditionType, error) {
	for _, candidate := range validConditionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition type %q", value)
}

// MatchType selects ANY or ALL semantics for multi-value conditions.
type MatchType string

const (
	MatchTypeAny MatchType = "any"
	MatchTypeAll MatchType = "all"
)

var validMatchTypes = []MatchType{
	MatchTypeAny,
	MatchTypeAll,
}

// String implements fmt.Stringer.
func (m MatchType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MatchType.
func (m MatchType) IsValid() bool {
	for _, candidate := range validMatchTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMatchType converts raw input into a MatchType.
func ParseMatchType(value string) (MatchType, error) {
	for _, candidate := range validMatchTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match type %q", value)
}
