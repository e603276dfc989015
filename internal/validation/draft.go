package validation

import (
	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
)

// Draft is the product builder content that the tab predicates inspect.
type Draft struct {
	Basic      BasicInfo           `json:"basic"`
	Selection  selection.Selection `json:"selection"`
	Attributes Attributes          `json:"attributes"`
	Media      Media               `json:"media"`
	SEO        SEO                 `json:"seo"`
}

type BasicInfo struct {
	Title             string  `json:"title"`
	SKU               string  `json:"sku"`
	Length            string  `json:"length"`
	Width             string  `json:"width"`
	Height            string  `json:"height"`
	HasEngraving      bool    `json:"has_engraving"`
	EngravingMaxChars *int    `json:"engraving_max_chars"`
	HasSizeChart      bool    `json:"has_size_chart"`
	SizeChartGroupID  *string `json:"size_chart_group_id"`
}

type Attributes struct {
	CategoryIDs []string `json:"category_ids"`
	TagIDs      []string `json:"tag_ids"`
	BadgeIDs    []string `json:"badge_ids"`
}

// Media references uploaded assets by ID; uploads happen elsewhere.
type Media struct {
	MediaIDs []string `json:"media_ids"`
}

type SEO struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Slug            string `json:"slug"`
}
