package enums

import "fmt"

// FormTab names one section of the product builder.
type FormTab string

const (
	FormTabBasic      FormTab = "basic"
	FormTabMetal      FormTab = "metal"
	FormTabStone      FormTab = "stone"
	FormTabVariants   FormTab = "variants"
	FormTabAttributes FormTab = "attributes"
	FormTabMedia      FormTab = "media"
	FormTabSEO        FormTab = "seo"
)

// FormTabs lists the builder tabs in display order.
var FormTabs = []FormTab{
	FormTabBasic,
	FormTabMetal,
	FormTabStone,
	FormTabVariants,
	FormTabAttributes,
	FormTabMedia,
	FormTabSEO,
}

// String implements fmt.Stringer.
func (t FormTab) String() string {
	return string(t)
}

// IsValid reports whether the value is a known FormTab.
func (t FormTab) IsValid() bool {
	for _, candidate := range FormTabs {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseFormTab converts raw input into a FormTab.
func ParseFormTab(value string) (FormTab, error) {
	for _, candidate := range FormTabs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid form tab %q", value)
}

// FormStatus is the aggregate state of the product builder.
type FormStatus string

const (
	FormStatusEditing     FormStatus = "editing"
	FormStatusSubmittable FormStatus = "submittable"
	FormStatusBlocked     FormStatus = "blocked"
)

// String implements fmt.Stringer.
func (s FormStatus) String() string {
	return string(s)
}
