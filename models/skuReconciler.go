package models

// ReconcileSkus matches every candidate with the confirmed skus by code.
//
// A match ("existing") keeps the confirmed sku's identity, barcode, active flag, config,
// cost, price, bom and overrides. No match ("new") gets a fresh local id and the defaults
// of the current global config. When two confirmed skus share a code the first one wins.
func ReconcileSkus(candidates []Sku, confirmed []Sku, global GlobalConfig) []Sku {
	byCode := make(map[string]int, len(confirmed))
	for i, s := range confirmed {
		if _, ok := byCode[s.Code]; !ok {
			byCode[s.Code] = i
		}
	}

	reconciled := make([]Sku, 0, len(candidates))
	for _, c := range candidates {
		sku := Sku{
			DisplayName:    c.DisplayName,
			Code:           c.Code,
			UnitRef:        c.UnitRef,
			VariantUnitRef: c.VariantUnitRef,
		}
		if i, ok := byCode[c.Code]; ok {
			existing := confirmed[i]
			sku.Identity = existing.Identity.clone()
			sku.Barcode = existing.Barcode
			sku.IsActive = existing.IsActive
			sku.Config = existing.Config
			sku.Cost = normalizeCost(existing.Cost)
			sku.Price = normalizePrice(existing.Price)
			sku.Bom = normalizeBom(existing.Bom)
			sku.Overrides = copyOverrides(existing.Overrides)
		} else {
			sku.Identity = newIdentity()
			sku.IsActive = true
			sku.Config = global.Config
			sku.Cost = normalizeCost(global.Cost)
			sku.Price = normalizePrice(global.Price)
			sku.Bom = normalizeBom(global.Bom)
			sku.Overrides = []OutletOverride{}
		}
		reconciled = append(reconciled, sku)
	}
	return reconciled
}

// MissingCombinations returns the generated skus that have no confirmed sku with the same code.
func MissingCombinations(generated []Sku, confirmed []Sku) []Sku {
	codes := skuCodes(confirmed)
	missing := make([]Sku, 0)
	for _, s := range generated {
		if !codes[s.Code] {
			missing = append(missing, s)
		}
	}
	return missing
}

// OrphanedSkus returns the confirmed skus whose code no generated sku produces anymore,
// typically after the item or an option was renamed.
func OrphanedSkus(confirmed []Sku, generated []Sku) []Sku {
	codes := skuCodes(generated)
	orphaned := make([]Sku, 0)
	for _, s := range confirmed {
		if !codes[s.Code] {
			orphaned = append(orphaned, s)
		}
	}
	return orphaned
}

func skuCodes(skus []Sku) map[string]bool {
	codes := make(map[string]bool, len(skus))
	for _, s := range skus {
		codes[s.Code] = true
	}
	return codes
}
