package models

import "strings"

// Variant is one concrete combination of axis values.
type Variant struct {
	Identity
	OptionsKey  string          `json:"options_key"`
	Options     []VariantOption `json:"options"`
	DisplayName string          `json:"display_name"`
	SortOrder   int             `json:"sort_order"`
	IsActive    bool            `json:"is_active"`
}

type VariantOption struct {
	Axis  string `json:"axis" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// BuildOptionsKey joins axis:value pairs in axis order, e.g. "Size:Large|Color:Red".
func BuildOptionsKey(options []VariantOption) string {
	pairs := make([]string, 0, len(options))
	for _, o := range options {
		pairs = append(pairs, strings.TrimSpace(o.Axis)+":"+strings.TrimSpace(o.Value))
	}
	return strings.Join(pairs, "|")
}

// BuildVariantDisplayName, e.g. "Large / Red"
func BuildVariantDisplayName(options []VariantOption) string {
	values := make([]string, 0, len(options))
	for _, o := range options {
		if v := strings.TrimSpace(o.Value); v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, " / ")
}

func (v Variant) values() []string {
	values := make([]string, 0, len(v.Options))
	for _, o := range v.Options {
		values = append(values, o.Value)
	}
	return values
}

func findVariant(variants []Variant, localId string) int {
	for i, v := range variants {
		if v.LocalId == localId {
			return i
		}
	}
	return -1
}
