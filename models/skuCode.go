package models

import (
	"strings"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
)

const skuNameValueSeparator = " – "

// BuildSkuDisplayName, e.g. "Kopi Hitam Kecil – Panas (PCS)". Returns "-" when nothing is left.
func BuildSkuDisplayName(itemName string, variant *Variant, unit *Unit) string {
	parts := make([]string, 0, 3)
	if name := strings.TrimSpace(itemName); name != "" {
		parts = append(parts, name)
	}
	if variant != nil {
		values := make([]string, 0, len(variant.Options))
		for _, v := range variant.values() {
			v = strings.TrimSpace(strings.ReplaceAll(v, "-", " "))
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			parts = append(parts, strings.Join(values, skuNameValueSeparator))
		}
	}
	if unit != nil {
		if code := strings.TrimSpace(unit.Code); code != "" {
			parts = append(parts, "("+code+")")
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// BuildSkuCode, e.g. "KOPI-HITAM-KECIL-PCS".
// The code is the only key used to match generated skus with persisted ones.
func BuildSkuCode(itemName string, variant *Variant, unit *Unit) string {
	parts := make([]string, 0, 3)
	if s := utils.Slugify(itemName); s != "" {
		parts = append(parts, s)
	}
	if variant != nil {
		values := make([]string, 0, len(variant.Options))
		for _, v := range variant.values() {
			if s := utils.Slugify(v); s != "" {
				values = append(values, s)
			}
		}
		if len(values) > 0 {
			parts = append(parts, strings.Join(values, "-"))
		}
	}
	if unit != nil {
		if s := utils.Slugify(unit.Code); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToUpper(strings.Join(parts, "-"))
}
