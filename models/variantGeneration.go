package models

import "strings"

// CombineAxes returns the cartesian product of the active options of axes, in axis order.
// An axis without active options empties the product; no axes at all yields no combinations.
func CombineAxes(axes []VariantAxis) [][]VariantOption {
	if len(axes) == 0 {
		return [][]VariantOption{}
	}
	combos := [][]VariantOption{{}}
	for _, axis := range axes {
		name := strings.TrimSpace(axis.Name)
		labels := axis.ActiveLabels()
		next := make([][]VariantOption, 0, len(combos)*len(labels))
		for _, combo := range combos {
			for _, label := range labels {
				c := make([]VariantOption, len(combo), len(combo)+1)
				copy(c, combo)
				next = append(next, append(c, VariantOption{Axis: name, Value: label}))
			}
		}
		combos = next
	}
	return combos
}

// GenerateVariants turns the axis combinations into variants.
// A combination whose options key already exists in previous keeps that variant's identity
// and active flag, everything else gets a fresh local id.
func GenerateVariants(axes []VariantAxis, previous []Variant) []Variant {
	combos := CombineAxes(axes)

	byKey := make(map[string]Variant, len(previous))
	for _, v := range previous {
		if _, ok := byKey[v.OptionsKey]; !ok {
			byKey[v.OptionsKey] = v
		}
	}

	variants := make([]Variant, 0, len(combos))
	for i, options := range combos {
		key := BuildOptionsKey(options)
		variant := Variant{
			Identity:    newIdentity(),
			OptionsKey:  key,
			Options:     options,
			DisplayName: BuildVariantDisplayName(options),
			SortOrder:   i + 1,
			IsActive:    true,
		}
		if prev, ok := byKey[key]; ok {
			variant.Identity = prev.Identity.clone()
			variant.IsActive = prev.IsActive
		}
		variants = append(variants, variant)
	}
	return variants
}
