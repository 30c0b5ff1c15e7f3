package models

import "testing"

func TestLinkVariantUnits_PreservesPairs(t *testing.T) {
	variants := []Variant{testVariant("v1", VariantOption{Axis: "Size", Value: "S"}), testVariant("v2", VariantOption{Axis: "Size", Value: "M"})}
	units := []Unit{testUnit("u1", "PCS"), testUnit("u2", "BOX")}

	first := LinkVariantUnits(variants, units, nil)
	if len(first) != 4 {
		t.Fatalf("expected 4 pairings, got %d", len(first))
	}
	if first[1].VariantLocalId != "v1" || first[1].UnitLocalId != "u2" {
		t.Fatalf("pairings should be variant-major, got %+v", first[1])
	}
	first[1].IsActive = false

	second := LinkVariantUnits(variants, units[:1], first)
	if len(second) != 2 {
		t.Fatalf("pairings of a removed unit should be dropped, got %d", len(second))
	}
	if second[0].LocalId != first[0].LocalId {
		t.Fatalf("existing pairing should keep its local id")
	}

	third := LinkVariantUnits(variants, units, first)
	if third[1].LocalId != first[1].LocalId || third[1].IsActive {
		t.Fatalf("inactive pairing should keep identity and stay inactive")
	}
}

func TestGenerateSkuCandidates_UnitsOnly(t *testing.T) {
	in := MatrixInput{ItemName: "Teh", Units: []Unit{testUnit("u1", "PCS"), testUnit("u2", "BOX")}}
	got := GenerateSkuCandidates(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Code != "TEH-PCS" || got[0].UnitRef == nil || got[0].UnitRef.LocalId != "u1" || got[0].VariantUnitRef != nil {
		t.Fatalf("unexpected candidate %+v", got[0])
	}
}

func TestGenerateSkuCandidates_VariantMatrix(t *testing.T) {
	variants := []Variant{testVariant("v1", VariantOption{Axis: "Size", Value: "S"}), testVariant("v2", VariantOption{Axis: "Size", Value: "M"})}
	units := []Unit{testUnit("u1", "PCS"), testUnit("u2", "BOX")}
	in := MatrixInput{
		ItemName:     "Teh",
		HasVariants:  true,
		Units:        units,
		Variants:     variants,
		VariantUnits: LinkVariantUnits(variants, units, nil),
	}
	got := GenerateSkuCandidates(in)
	want := []string{"TEH-S-PCS", "TEH-S-BOX", "TEH-M-PCS", "TEH-M-BOX"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(got))
	}
	for i, c := range got {
		if c.Code != want[i] {
			t.Fatalf("candidate %d: got %s want %s", i, c.Code, want[i])
		}
		if !c.HasValidRef() || c.VariantUnitRef == nil {
			t.Fatalf("variant candidate should reference its variant unit: %+v", c)
		}
	}
}

func TestGenerateSkuCandidates_SkipsInactive(t *testing.T) {
	variants := []Variant{testVariant("v1", VariantOption{Axis: "Size", Value: "S"}), testVariant("v2", VariantOption{Axis: "Size", Value: "M"})}
	variants[1].IsActive = false
	units := []Unit{testUnit("u1", "PCS"), testUnit("u2", "BOX")}
	vus := LinkVariantUnits(variants, units, nil)
	vus[1].IsActive = false

	got := GenerateSkuCandidates(MatrixInput{ItemName: "Teh", HasVariants: true, Units: units, Variants: variants, VariantUnits: vus})
	if len(got) != 1 || got[0].Code != "TEH-S-PCS" {
		t.Fatalf("expected only TEH-S-PCS, got %+v", got)
	}
}

func TestGenerateSkuCandidates_NoActiveVariantFallsBackToUnits(t *testing.T) {
	variants := []Variant{testVariant("v1", VariantOption{Axis: "Size", Value: "S"})}
	variants[0].IsActive = false
	units := []Unit{testUnit("u1", "PCS")}
	in := MatrixInput{ItemName: "Teh", HasVariants: true, Units: units, Variants: variants, VariantUnits: LinkVariantUnits(variants, units, nil)}
	if in.UsesVariants() {
		t.Fatalf("variant path should not apply without an active variant")
	}
	got := GenerateSkuCandidates(in)
	if len(got) != 1 || got[0].Code != "TEH-PCS" {
		t.Fatalf("expected unit fallback, got %+v", got)
	}
}

func TestGenerateSkuCandidates_GuardCodes(t *testing.T) {
	variants := []Variant{testVariant("v1", VariantOption{Axis: "Size", Value: "S"}), testVariant("v2", VariantOption{Axis: "Size", Value: "M"})}
	units := []Unit{testUnit("u1", "PCS")}
	in := MatrixInput{
		ItemName:     "Teh",
		HasVariants:  true,
		Units:        units,
		Variants:     variants,
		VariantUnits: LinkVariantUnits(variants, units, nil),
		GuardCodes:   map[string]bool{"TEH-M-PCS": true},
	}
	got := GenerateSkuCandidates(in)
	if len(got) != 1 || got[0].Code != "TEH-M-PCS" {
		t.Fatalf("guard should restrict candidates to known codes, got %+v", got)
	}

	in.GuardCodes = map[string]bool{}
	if got := GenerateSkuCandidates(in); len(got) != 0 {
		t.Fatalf("empty guard should suppress every variant candidate, got %d", len(got))
	}
}
