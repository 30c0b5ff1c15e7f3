package models

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

func addTestUnit(t *testing.T, d *ItemDraft, id int, abbr string, factor int64) Unit {
	t.Helper()
	f := decimal.NewFromInt(factor)
	u, err := d.AddUnit(&ProductUnit{ID: id, Name: abbr, Abbreviation: abbr}, NewUnit{UnitId: id, ConversionFactor: &f})
	if err != nil {
		t.Fatalf("add unit %s: %v", abbr, err)
	}
	return u
}

func codesOf(skus []Sku) []string {
	out := make([]string, 0, len(skus))
	for _, s := range skus {
		out = append(out, s.Code)
	}
	return out
}

func TestAddUnit(t *testing.T) {
	d := NewItemDraft(true)
	pcs := addTestUnit(t, d, 1, "PCS", 5)
	if !pcs.IsBase || !pcs.ConversionFactor.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("first unit should be base with factor 1, got %+v", pcs)
	}
	box := addTestUnit(t, d, 2, "BOX", 12)
	if box.IsBase || !box.ConversionFactor.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("second unit should keep its factor, got %+v", box)
	}
	if !box.IsStock || !box.IsSales {
		t.Fatalf("capability flags should default to true, got %+v", box)
	}

	if _, err := d.AddUnit(&ProductUnit{ID: 2, Abbreviation: "BOX"}, NewUnit{UnitId: 2}); !errors.Is(err, utils.ErrDuplicateUnit) {
		t.Fatalf("expected ErrDuplicateUnit, got %v", err)
	}
	if _, err := d.AddUnit(nil, NewUnit{UnitId: 3}); !errors.Is(err, utils.ErrUnitNotFound) {
		t.Fatalf("expected ErrUnitNotFound, got %v", err)
	}
}

func TestRemoveUnit_PromotesBase(t *testing.T) {
	d := NewItemDraft(true)
	pcs := addTestUnit(t, d, 1, "PCS", 1)
	box := addTestUnit(t, d, 2, "BOX", 12)
	if err := d.RemoveUnit(pcs.LocalId); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(d.Units) != 1 || d.Units[0].LocalId != box.LocalId || !d.Units[0].IsBase {
		t.Fatalf("remaining unit should become base, got %+v", d.Units)
	}
	if !d.Units[0].ConversionFactor.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("promoted base should convert at 1, got %s", d.Units[0].ConversionFactor)
	}
	if err := d.RemoveUnit("nope"); !errors.Is(err, utils.ErrUnitNotFound) {
		t.Fatalf("expected ErrUnitNotFound, got %v", err)
	}
}

func TestSetBaseUnit_NormalizesFactor(t *testing.T) {
	d := NewItemDraft(true)
	pcs := addTestUnit(t, d, 1, "PCS", 1)
	box := addTestUnit(t, d, 2, "BOX", 12)
	if err := d.SetBaseUnit(box.LocalId); err != nil {
		t.Fatalf("set base: %v", err)
	}
	for _, u := range d.Units {
		if u.LocalId == box.LocalId && (!u.IsBase || !u.ConversionFactor.Equal(decimal.NewFromInt(1))) {
			t.Fatalf("new base should convert at 1, got %+v", u)
		}
		if u.LocalId == pcs.LocalId && u.IsBase {
			t.Fatalf("old base should lose the flag, got %+v", u)
		}
	}
	if err := d.SetBaseUnit("nope"); !errors.Is(err, utils.ErrUnitNotFound) {
		t.Fatalf("expected ErrUnitNotFound, got %v", err)
	}
}

func TestRemoveOnlyUnit_ClearsMatrix(t *testing.T) {
	d := NewItemDraft(true)
	d.SetName("Teh")
	d.SetHasVariants(true)
	pcs := addTestUnit(t, d, 1, "PCS", 1)
	d.AddAxis("Size", "S", "M")
	d.RegenerateVariants()
	d.AcceptCombinations(codesOf(d.Generated))
	if len(d.Skus) != 2 || len(d.VariantUnits) != 2 {
		t.Fatalf("expected 2 skus and 2 variant units, got %d and %d", len(d.Skus), len(d.VariantUnits))
	}

	if err := d.RemoveUnit(pcs.LocalId); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(d.Generated) != 0 || len(d.VariantUnits) != 0 || len(d.Skus) != 0 {
		t.Fatalf("expected empty matrix, got %d candidates, %d variant units, %d skus",
			len(d.Generated), len(d.VariantUnits), len(d.Skus))
	}
}

func TestVariantFlow_RenameOrphansAndProposes(t *testing.T) {
	d := NewItemDraft(true)
	d.SetName("Kopi Hitam")
	d.SetHasVariants(true)
	addTestUnit(t, d, 1, "PCS", 1)
	axis := d.AddAxis("Size", "Kecil", "Besar")

	stats := d.RegenerateVariants()
	if stats.Candidates != 2 || stats.Missing != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	accepted := d.AcceptCombinations([]string{"kopi-hitam-kecil-pcs"})
	if len(accepted) != 1 || accepted[0].Code != "KOPI-HITAM-KECIL-PCS" {
		t.Fatalf("accept should match codes case-insensitively, got %+v", accepted)
	}
	if again := d.AcceptCombinations([]string{"KOPI-HITAM-KECIL-PCS"}); len(again) != 0 {
		t.Fatalf("confirmed code should not be accepted twice")
	}
	d.RegenerateSkus(false)
	if got := d.MissingCombinations(); len(got) != 1 || got[0].Code != "KOPI-HITAM-BESAR-PCS" {
		t.Fatalf("unexpected missing %+v", got)
	}

	d.SetName("Kopi O")
	d.RegenerateSkus(false)
	if got := d.OrphanedSkus(); len(got) != 1 || got[0].Code != "KOPI-HITAM-KECIL-PCS" {
		t.Fatalf("renamed item should orphan the confirmed sku, got %+v", got)
	}
	if got := codesOf(d.MissingCombinations()); len(got) != 2 {
		t.Fatalf("expected both new codes missing, got %v", got)
	}
	if d.Skus[0].DisplayName != "Kopi Hitam Kecil (PCS)" {
		t.Fatalf("orphaned sku keeps its name, got %q", d.Skus[0].DisplayName)
	}

	label := "Kcl"
	if _, err := d.UpdateAxisOption(axis.LocalId, axis.Options[0].LocalId, NewAxisOption{Label: &label}); err != nil {
		t.Fatalf("update option: %v", err)
	}
	stats = d.RegenerateVariants()
	if stats.Pruned != 1 || len(d.Skus) != 0 {
		t.Fatalf("sku on the replaced variant should be pruned, got %+v with %v", stats, codesOf(d.Skus))
	}
}

func TestRemoveVariantUnit_StaysRemoved(t *testing.T) {
	d := NewItemDraft(true)
	d.SetName("Teh")
	d.SetHasVariants(true)
	addTestUnit(t, d, 1, "PCS", 1)
	addTestUnit(t, d, 2, "BOX", 10)
	d.AddAxis("Size", "S")
	d.RegenerateVariants()
	d.AcceptCombinations(codesOf(d.Generated))
	if len(d.Skus) != 2 {
		t.Fatalf("expected 2 skus, got %d", len(d.Skus))
	}

	box := d.VariantUnits[1]
	if err := d.RemoveVariantUnit(box.LocalId); err != nil {
		t.Fatalf("remove variant unit: %v", err)
	}
	if len(d.Skus) != 1 || d.Skus[0].Code != "TEH-S-PCS" {
		t.Fatalf("sku on the removed pairing should be dropped, got %v", codesOf(d.Skus))
	}

	d.Relink()
	d.RegenerateSkus(false)
	if len(d.Generated) != 1 {
		t.Fatalf("relinking should not revive the pairing, got %v", codesOf(d.Generated))
	}

	if _, err := d.AddVariantUnit(NewVariantUnit{VariantLocalId: box.VariantLocalId, UnitLocalId: box.UnitLocalId}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	d.RegenerateSkus(false)
	if len(d.Generated) != 2 {
		t.Fatalf("re-added pairing should produce its candidate again, got %v", codesOf(d.Generated))
	}
}

func TestRemoveVariant_RenumbersAndPrunes(t *testing.T) {
	d := NewItemDraft(true)
	d.SetName("Teh")
	d.SetHasVariants(true)
	addTestUnit(t, d, 1, "PCS", 1)
	d.AddAxis("Size", "S", "M", "L")
	d.RegenerateVariants()
	d.AcceptCombinations(codesOf(d.Generated))

	if err := d.RemoveVariant(d.Variants[0].LocalId); err != nil {
		t.Fatalf("remove variant: %v", err)
	}
	if len(d.Variants) != 2 || d.Variants[0].SortOrder != 1 || d.Variants[1].SortOrder != 2 {
		t.Fatalf("variants should be renumbered, got %+v", d.Variants)
	}
	if len(d.Skus) != 2 {
		t.Fatalf("sku of the removed variant should be pruned, got %v", codesOf(d.Skus))
	}
}

func TestAddVariant_DeduplicatesByKey(t *testing.T) {
	d := NewItemDraft(true)
	first := d.AddVariant([]VariantOption{{Axis: "Size", Value: " S "}})
	second := d.AddVariant([]VariantOption{{Axis: "Size", Value: "S"}})
	if first.LocalId != second.LocalId || len(d.Variants) != 1 {
		t.Fatalf("same options should return the existing variant")
	}
}

func TestUpdateSku(t *testing.T) {
	d := NewItemDraft(false)
	d.SetName("Teh")
	addTestUnit(t, d, 1, "PCS", 1)
	d.RegenerateSkus(false)
	d.AcceptCombinations(codesOf(d.Generated))

	barcode := "8991234"
	price := SkuPrice{Amount: decimal.NewFromInt(3000)}
	s, err := d.UpdateSku(d.Skus[0].LocalId, SkuInput{Barcode: &barcode, Price: &price})
	if err != nil {
		t.Fatalf("update sku: %v", err)
	}
	if s.Barcode != barcode || !s.Price.MinQty.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected sku %+v", s)
	}
	if _, err := d.UpdateSku("missing", SkuInput{}); !errors.Is(err, utils.ErrSkuNotFound) {
		t.Fatalf("expected ErrSkuNotFound, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := NewItemDraft(true)
	d.AddAxis("Size", "S")
	c := d.Clone()
	c.Axes[0].Options[0].Label = "changed"
	c.Units = append(c.Units, Unit{})
	if d.Axes[0].Options[0].Label != "S" || len(d.Units) != 0 {
		t.Fatalf("clone should not share state with the draft")
	}
}
