package models

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// storedTeh is an item with two size variants, one unit, and a sku only for the small size.
func storedTeh() *Item {
	return &Item{
		ID:           10,
		Name:         "Teh",
		HasVariants:  utils.NewTrue(),
		GlobalConfig: `{"config":{"manage_stock":true},"cost":{"amount":"0"},"price":{"amount":"0"}}`,
		Units: []ItemUnit{
			{ID: 20, UnitId: 1, ConversionFactor: decimal.NewFromInt(1)},
		},
		Variants: []ItemVariant{
			{ID: 30, Options: `[{"axis":"Size","value":"S"}]`, SortOrder: 1},
			{ID: 31, Options: `[{"axis":"Size","value":"M"}]`, SortOrder: 2},
		},
		VariantUnits: []ItemVariantUnit{
			{ID: 40, VariantId: 30, ItemUnitId: 20},
			{ID: 41, VariantId: 31, ItemUnitId: 20},
		},
		Skus: []ItemSku{
			{ID: 50, Code: "TEH-S-PCS", ItemVariantUnitId: intPtr(40), PriceAmount: decimal.NewFromInt(4000)},
		},
	}
}

func intPtr(v int) *int {
	return &v
}

func TestNormalizeItem(t *testing.T) {
	d, err := NormalizeItem(storedTeh(), []*ProductUnit{{ID: 1, Name: "Piece", Abbreviation: "PCS"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if d.ItemId == nil || *d.ItemId != 10 || !d.HasVariants || !d.UseSameConfig {
		t.Fatalf("unexpected draft header %+v", d)
	}
	if !d.Global.Config.ManageStock || !d.Global.Price.MinQty.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("global config not decoded: %+v", d.Global)
	}
	if len(d.Units) != 1 || d.Units[0].Code != "PCS" || d.Units[0].LocalId != "20" || !d.Units[0].IsBase {
		t.Fatalf("unexpected units %+v", d.Units)
	}
	if len(d.Axes) != 1 || len(d.Axes[0].Options) != 2 {
		t.Fatalf("axes should be rebuilt from variants, got %+v", d.Axes)
	}
	if vu := d.VariantUnits[0]; vu.VariantLocalId != "30" || vu.UnitLocalId != "20" {
		t.Fatalf("variant unit should link by persisted ids, got %+v", vu)
	}
	if s := d.Skus[0]; s.VariantUnitRef == nil || s.VariantUnitRef.LocalId != "40" || !s.IsPersisted() {
		t.Fatalf("unexpected sku %+v", s)
	}
}

func TestNormalizeItem_GuardedFirstPass(t *testing.T) {
	d, err := NormalizeItem(storedTeh(), []*ProductUnit{{ID: 1, Name: "Piece", Abbreviation: "PCS"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	d.Relink()
	guarded := d.RegenerateSkus(true)
	if guarded.Candidates != 1 || guarded.Missing != 0 {
		t.Fatalf("guarded pass should only reproduce stored skus, got %+v", guarded)
	}
	if d.Skus[0].LocalId != "50" || !d.Skus[0].Price.Amount.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("stored sku should survive the guarded pass, got %+v", d.Skus[0])
	}

	open := d.RegenerateSkus(false)
	if open.Candidates != 2 || open.Missing != 1 {
		t.Fatalf("unguarded pass should propose the missing size, got %+v", open)
	}
}

func TestNormalizeItem_DeactivatedUnitKeepsCode(t *testing.T) {
	item := &Item{
		ID:          11,
		Name:        "Teh",
		HasVariants: utils.NewFalse(),
		Units: []ItemUnit{{
			ID:               21,
			UnitId:           1,
			ConversionFactor: decimal.NewFromInt(1),
			IsBase:           utils.NewTrue(),
			Unit:             &ProductUnit{ID: 1, Name: "Piece", Abbreviation: "PCS", IsActive: utils.NewFalse()},
		}},
		Skus: []ItemSku{{ID: 51, Code: "TEH-PCS", ItemUnitId: intPtr(21)}},
	}
	d, err := NormalizeItem(item, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if d.Units[0].Code != "PCS" || d.Units[0].Name != "Piece" {
		t.Fatalf("unit should take its code from the preloaded unit, got %+v", d.Units[0])
	}
	d.Relink()
	stats := d.RegenerateSkus(true)
	if got := codesOf(d.Generated); len(got) != 1 || got[0] != "TEH-PCS" {
		t.Fatalf("expected TEH-PCS to be generated, got %v", got)
	}
	if stats.Missing != 0 || len(d.MissingCombinations()) != 0 || len(d.OrphanedSkus()) != 0 {
		t.Fatalf("stored sku should stay matched, stats %+v orphaned %v", stats, codesOf(d.OrphanedSkus()))
	}
}

func TestNormalizeItem_BadOptions(t *testing.T) {
	item := storedTeh()
	item.Variants[0].Options = "not json"
	if _, err := NormalizeItem(item, nil); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := NormalizeItem(nil, nil); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}
}

func TestValidateItemPayload(t *testing.T) {
	d := NewItemDraft(true)
	d.SetName("Teh")
	addTestUnit(t, d, 1, "PCS", 1)
	addTestUnit(t, d, 2, "BOX", 10)
	d.RegenerateSkus(false)
	d.AcceptCombinations(codesOf(d.Generated))

	if err := ValidateItemPayload(BuildItemPayload(d)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	p := BuildItemPayload(d)
	p.Units[1].IsBase = true
	if err := ValidateItemPayload(p); !errors.Is(err, utils.ErrInvalidItem) {
		t.Fatalf("two base units: expected ErrInvalidItem, got %v", err)
	}

	p = BuildItemPayload(d)
	p.Skus[1].Code = p.Skus[0].Code
	if err := ValidateItemPayload(p); !errors.Is(err, utils.ErrDuplicateSkuCode) {
		t.Fatalf("expected ErrDuplicateSkuCode, got %v", err)
	}

	p = BuildItemPayload(d)
	p.Skus[0].UnitRef = &Identity{LocalId: "gone"}
	if err := ValidateItemPayload(p); !errors.Is(err, utils.ErrUnitNotFound) || !errors.Is(err, utils.ErrInvalidItem) {
		t.Fatalf("expected dangling unit error, got %v", err)
	}

	p = BuildItemPayload(d)
	p.Name = ""
	var verrs validator.ValidationErrors
	if err := ValidateItemPayload(p); !errors.As(err, &verrs) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}
