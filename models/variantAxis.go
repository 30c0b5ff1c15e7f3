package models

import "strings"

// VariantAxis is a named option group used to build variants. It is never persisted.
type VariantAxis struct {
	LocalId string       `json:"local_id"`
	Name    string       `json:"name"`
	Options []AxisOption `json:"options"`
}

type AxisOption struct {
	LocalId string `json:"local_id"`
	Label   string `json:"label"`
	Active  bool   `json:"active"`
}

type NewAxisOption struct {
	Label  *string `json:"label"`
	Active *bool   `json:"active"`
}

// ActiveLabels returns the trimmed labels of enabled, non-blank options.
// A repeated label is kept once so that option keys stay unique.
func (a VariantAxis) ActiveLabels() []string {
	labels := make([]string, 0, len(a.Options))
	seen := make(map[string]bool)
	for _, o := range a.Options {
		label := strings.TrimSpace(o.Label)
		if !o.Active || label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

func (a *VariantAxis) findOption(localId string) int {
	for i, o := range a.Options {
		if o.LocalId == localId {
			return i
		}
	}
	return -1
}

func findAxis(axes []VariantAxis, localId string) int {
	for i, a := range axes {
		if a.LocalId == localId {
			return i
		}
	}
	return -1
}

// AxesFromVariants rebuilds the axis builder state of a persisted item.
// Axes appear in the order of their first use and options in the order of first occurrence.
func AxesFromVariants(variants []Variant) []VariantAxis {
	axes := make([]VariantAxis, 0)
	axisIdx := make(map[string]int)
	seen := make(map[string]bool)
	for _, v := range variants {
		for _, o := range v.Options {
			idx, ok := axisIdx[o.Axis]
			if !ok {
				axes = append(axes, VariantAxis{LocalId: NewLocalId(), Name: o.Axis})
				idx = len(axes) - 1
				axisIdx[o.Axis] = idx
			}
			key := o.Axis + "\x00" + o.Value
			if seen[key] {
				continue
			}
			seen[key] = true
			axes[idx].Options = append(axes[idx].Options, AxisOption{
				LocalId: NewLocalId(),
				Label:   o.Value,
				Active:  true,
			})
		}
	}
	return axes
}
