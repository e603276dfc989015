package enums

import "fmt"

// AttributeKind groups reference values selectable in the catalog admin.
type AttributeKind string

const (
	AttributeKindMetalType           AttributeKind = "metal_type"
	AttributeKindMetalColor          AttributeKind = "metal_color"
	AttributeKindMetalPurity         AttributeKind = "metal_purity"
	AttributeKindDiamondClarityColor AttributeKind = "diamond_clarity_color"
	AttributeKindGemstoneColor       AttributeKind = "gemstone_color"
	AttributeKindGemstoneQuality     AttributeKind = "gemstone_quality"
	AttributeKindCategory            AttributeKind = "category"
	AttributeKindTag                 AttributeKind = "tag"
	AttributeKindBadge               AttributeKind = "badge"
)

var validAttributeKinds = []AttributeKind{
	AttributeKindMetalType,
	AttributeKindMetalColor,
	AttributeKindMetalPurity,
	AttributeKindDiamondClarityColor,
	AttributeKindGemstoneColor,
	AttributeKindGemstoneQuality,
	AttributeKindCategory,
	AttributeKindTag,
	AttributeKindBadge,
}

// String implements fmt.Stringer.
func (k AttributeKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known AttributeKind.
func (k AttributeKind) IsValid() bool {
	for _, candidate := range validAttributeKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseAttributeKind converts raw input into an AttributeKind.
func ParseAttributeKind(value string) (AttributeKind, error) {
	for _, candidate := range validAttributeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attribute kind %q", value)
}
