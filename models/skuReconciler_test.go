package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReconcileSkus_ExistingKeepsData(t *testing.T) {
	id := 7
	confirmed := []Sku{{
		Identity: Identity{LocalId: "7", PersistedId: &id},
		Code:     "TEH-PCS",
		Barcode:  "899",
		IsActive: false,
		Price:    SkuPrice{Amount: decimal.NewFromInt(5000)},
	}}
	candidates := []Sku{{Code: "TEH-PCS", DisplayName: "Teh (PCS)", UnitRef: &Identity{LocalId: "u1"}}}

	got := ReconcileSkus(candidates, confirmed, DefaultGlobalConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 sku, got %d", len(got))
	}
	s := got[0]
	if !s.SameServer(confirmed[0].Identity) || s.LocalId != "7" {
		t.Fatalf("existing sku should keep its identity, got %+v", s.Identity)
	}
	if s.Barcode != "899" || s.IsActive || !s.Price.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("existing sku data lost: %+v", s)
	}
	if !s.Price.MinQty.Equal(decimal.NewFromInt(1)) || s.Cost.Method != CostMethodFIFO {
		t.Fatalf("defaults should be normalized, got %+v %+v", s.Price, s.Cost)
	}
	if s.DisplayName != "Teh (PCS)" || s.UnitRef == nil || s.UnitRef.LocalId != "u1" {
		t.Fatalf("name and reference should come from the candidate, got %+v", s)
	}
}

func TestReconcileSkus_NewGetsGlobalDefaults(t *testing.T) {
	global := DefaultGlobalConfig()
	global.Config.ManageStock = true
	global.Price.Amount = decimal.NewFromInt(1200)

	got := ReconcileSkus([]Sku{{Code: "TEH-BOX", UnitRef: &Identity{LocalId: "u2"}}}, nil, global)
	s := got[0]
	if s.LocalId == "" || s.IsPersisted() {
		t.Fatalf("new sku should get a fresh local id only, got %+v", s.Identity)
	}
	if !s.IsActive || !s.Config.ManageStock || !s.Price.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("new sku should take the global defaults, got %+v", s)
	}
	if s.Overrides == nil {
		t.Fatalf("overrides should be an empty list")
	}
}

func TestReconcileSkus_FirstDuplicateWins(t *testing.T) {
	confirmed := []Sku{
		{Identity: Identity{LocalId: "a"}, Code: "X", Barcode: "first"},
		{Identity: Identity{LocalId: "b"}, Code: "X", Barcode: "second"},
	}
	got := ReconcileSkus([]Sku{{Code: "X"}}, confirmed, DefaultGlobalConfig())
	if got[0].LocalId != "a" || got[0].Barcode != "first" {
		t.Fatalf("first confirmed sku should win, got %+v", got[0])
	}
}

func TestMissingAndOrphaned(t *testing.T) {
	generated := []Sku{{Code: "A"}, {Code: "B"}}
	confirmed := []Sku{{Code: "B"}, {Code: "C"}}

	missing := MissingCombinations(generated, confirmed)
	if len(missing) != 1 || missing[0].Code != "A" {
		t.Fatalf("unexpected missing %+v", missing)
	}
	orphaned := OrphanedSkus(confirmed, generated)
	if len(orphaned) != 1 || orphaned[0].Code != "C" {
		t.Fatalf("unexpected orphaned %+v", orphaned)
	}
}
