package enums

import "fmt"

// ProductType scopes products and pricing rules to one kind of merchandise.
type ProductType string

const (
	ProductTypeJewellery     ProductType = "jewellery"
	ProductTypeLooseDiamond  ProductType = "loose_diamond"
	ProductTypeLooseGemstone ProductType = "loose_gemstone"
	ProductTypeCoin          ProductType = "coin"
)

var validProductTypes = []ProductType{
	ProductTypeJewellery,
	ProductTypeLooseDiamond,
	ProductTypeLooseGemstone,
	ProductTypeCoin,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
