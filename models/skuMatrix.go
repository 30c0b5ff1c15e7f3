package models

// MatrixInput is everything the sku matrix depends on.
type MatrixInput struct {
	ItemName     string
	HasVariants  bool
	Units        []Unit
	Variants     []Variant
	VariantUnits []VariantUnit

	// GuardCodes, when not nil, restricts variant candidates to these codes.
	// Set while an existing item is being opened so no unconfirmed combination is proposed.
	GuardCodes map[string]bool
}

// UsesVariants reports whether the variant path applies: the item has variants
// and at least one active variant exists.
func (in MatrixInput) UsesVariants() bool {
	if !in.HasVariants {
		return false
	}
	for _, v := range in.Variants {
		if v.IsActive {
			return true
		}
	}
	return false
}

// GenerateSkuCandidates derives the full candidate list from scratch.
// Candidates carry code, display name and exactly one reference; identity and data are
// filled in by ReconcileSkus.
func GenerateSkuCandidates(in MatrixInput) []Sku {
	if !in.UsesVariants() {
		candidates := make([]Sku, 0, len(in.Units))
		for i := range in.Units {
			unit := in.Units[i]
			candidates = append(candidates, Sku{
				DisplayName: BuildSkuDisplayName(in.ItemName, nil, &unit),
				Code:        BuildSkuCode(in.ItemName, nil, &unit),
				IsActive:    true,
				UnitRef:     unit.ref(),
			})
		}
		return candidates
	}

	pairs := make(map[string]VariantUnit, len(in.VariantUnits))
	for _, vu := range in.VariantUnits {
		pairs[pairKey(vu.VariantLocalId, vu.UnitLocalId)] = vu
	}

	candidates := make([]Sku, 0, len(in.Variants)*len(in.Units))
	for i := range in.Variants {
		variant := in.Variants[i]
		if !variant.IsActive {
			continue
		}
		for j := range in.Units {
			unit := in.Units[j]
			vu, ok := pairs[pairKey(variant.LocalId, unit.LocalId)]
			if !ok || !vu.IsActive {
				continue
			}
			code := BuildSkuCode(in.ItemName, &variant, &unit)
			if in.GuardCodes != nil && !in.GuardCodes[code] {
				continue
			}
			candidates = append(candidates, Sku{
				DisplayName:    BuildSkuDisplayName(in.ItemName, &variant, &unit),
				Code:           code,
				IsActive:       true,
				VariantUnitRef: vu.ref(),
			})
		}
	}
	return candidates
}
