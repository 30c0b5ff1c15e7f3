package models

// VariantUnit pairs one variant with one unit. At most one exists per pair.
type VariantUnit struct {
	Identity
	VariantLocalId     string `json:"variant_local_id"`
	VariantPersistedId *int   `json:"variant_persisted_id,omitempty"`
	UnitLocalId        string `json:"unit_local_id"`
	UnitPersistedId    *int   `json:"unit_persisted_id,omitempty"`
	DisplayName        string `json:"display_name"`
	IsActive           bool   `json:"is_active"`
}

type NewVariantUnit struct {
	VariantLocalId string `json:"variant_local_id" validate:"required"`
	UnitLocalId    string `json:"unit_local_id" validate:"required"`
}

func (vu VariantUnit) ref() *Identity {
	id := vu.Identity.clone()
	return &id
}

func pairKey(variantLocalId, unitLocalId string) string {
	return variantLocalId + "\x00" + unitLocalId
}

// BuildVariantUnitDisplayName, e.g. "Large / Red (PCS)"
func BuildVariantUnitDisplayName(variant Variant, unit Unit) string {
	if unit.Code == "" {
		return variant.DisplayName
	}
	return variant.DisplayName + " (" + unit.Code + ")"
}

func findVariantUnit(vus []VariantUnit, localId string) int {
	for i, vu := range vus {
		if vu.LocalId == localId {
			return i
		}
	}
	return -1
}
