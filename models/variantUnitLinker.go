package models

// LinkVariantUnits builds the variant x unit pairings, variant-major and unit-minor.
// A pairing that already exists in previous (same variant and unit local ids) keeps its
// identity and active flag. The full set is recomputed on every call, so pairings whose
// variant or unit is gone are dropped.
func LinkVariantUnits(variants []Variant, units []Unit, previous []VariantUnit) []VariantUnit {
	existing := make(map[string]VariantUnit, len(previous))
	for _, vu := range previous {
		key := pairKey(vu.VariantLocalId, vu.UnitLocalId)
		if _, ok := existing[key]; !ok {
			existing[key] = vu
		}
	}

	linked := make([]VariantUnit, 0, len(variants)*len(units))
	for _, variant := range variants {
		for _, unit := range units {
			vu := VariantUnit{
				Identity: newIdentity(),
				IsActive: true,
			}
			if prev, ok := existing[pairKey(variant.LocalId, unit.LocalId)]; ok {
				vu.Identity = prev.Identity.clone()
				vu.IsActive = prev.IsActive
			}
			vu.VariantLocalId = variant.LocalId
			vu.VariantPersistedId = cloneIntPtr(variant.PersistedId)
			vu.UnitLocalId = unit.LocalId
			vu.UnitPersistedId = cloneIntPtr(unit.PersistedId)
			vu.DisplayName = BuildVariantUnitDisplayName(variant, unit)
			linked = append(linked, vu)
		}
	}
	return linked
}
