package models

import "testing"

func testAxis(name string, labels ...string) VariantAxis {
	axis := VariantAxis{LocalId: NewLocalId(), Name: name}
	for _, l := range labels {
		axis.Options = append(axis.Options, AxisOption{LocalId: NewLocalId(), Label: l, Active: true})
	}
	return axis
}

func TestCombineAxes_CartesianInAxisOrder(t *testing.T) {
	combos := CombineAxes([]VariantAxis{testAxis("Size", "S", "M"), testAxis("Color", "Red", "Blue")})
	want := []string{"Size:S|Color:Red", "Size:S|Color:Blue", "Size:M|Color:Red", "Size:M|Color:Blue"}
	if len(combos) != len(want) {
		t.Fatalf("expected %d combinations, got %d", len(want), len(combos))
	}
	for i, c := range combos {
		if got := BuildOptionsKey(c); got != want[i] {
			t.Fatalf("combination %d: got %q want %q", i, got, want[i])
		}
	}
}

func TestCombineAxes_EmptyCases(t *testing.T) {
	if got := CombineAxes(nil); len(got) != 0 {
		t.Fatalf("no axes should yield no combinations, got %d", len(got))
	}
	inactive := testAxis("Color", "Red")
	inactive.Options[0].Active = false
	if got := CombineAxes([]VariantAxis{testAxis("Size", "S"), inactive}); len(got) != 0 {
		t.Fatalf("axis without active options should empty the product, got %d", len(got))
	}
}

func TestActiveLabels_TrimsAndDeduplicates(t *testing.T) {
	axis := testAxis("Size", " S ", "S", "", "M")
	labels := axis.ActiveLabels()
	if len(labels) != 2 || labels[0] != "S" || labels[1] != "M" {
		t.Fatalf("unexpected labels %v", labels)
	}
}

func TestGenerateVariants_PreservesIdentityByOptionsKey(t *testing.T) {
	axes := []VariantAxis{testAxis("Size", "S", "M")}
	first := GenerateVariants(axes, nil)
	if len(first) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(first))
	}
	first[1].IsActive = false

	axes[0].Options = append(axes[0].Options, AxisOption{LocalId: NewLocalId(), Label: "L", Active: true})
	second := GenerateVariants(axes, first)
	if len(second) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(second))
	}
	if second[0].LocalId != first[0].LocalId || second[1].LocalId != first[1].LocalId {
		t.Fatalf("existing variants should keep their local ids")
	}
	if second[1].IsActive {
		t.Fatalf("deactivated variant should stay inactive")
	}
	if second[2].LocalId == first[0].LocalId || second[2].LocalId == first[1].LocalId {
		t.Fatalf("new variant should get a fresh local id")
	}
	if second[2].SortOrder != 3 || second[2].DisplayName != "L" {
		t.Fatalf("unexpected new variant %+v", second[2])
	}
}

func TestAxesFromVariants(t *testing.T) {
	variants := []Variant{
		testVariant("1", VariantOption{Axis: "Size", Value: "S"}, VariantOption{Axis: "Color", Value: "Red"}),
		testVariant("2", VariantOption{Axis: "Size", Value: "S"}, VariantOption{Axis: "Color", Value: "Blue"}),
		testVariant("3", VariantOption{Axis: "Size", Value: "M"}, VariantOption{Axis: "Color", Value: "Red"}),
	}
	axes := AxesFromVariants(variants)
	if len(axes) != 2 || axes[0].Name != "Size" || axes[1].Name != "Color" {
		t.Fatalf("unexpected axes %+v", axes)
	}
	if got := axes[0].ActiveLabels(); len(got) != 2 || got[0] != "S" || got[1] != "M" {
		t.Fatalf("unexpected size labels %v", got)
	}
	if got := axes[1].ActiveLabels(); len(got) != 2 || got[0] != "Red" || got[1] != "Blue" {
		t.Fatalf("unexpected color labels %v", got)
	}
}
