package models

import "testing"

func draftWithSkus(t *testing.T, shared bool) *ItemDraft {
	t.Helper()
	d := NewItemDraft(shared)
	d.SetName("Teh")
	addTestUnit(t, d, 1, "PCS", 1)
	addTestUnit(t, d, 2, "BOX", 10)
	d.RegenerateSkus(false)
	d.AcceptCombinations(codesOf(d.Generated))
	return d
}

func TestSetGlobalConfig_SharedBroadcasts(t *testing.T) {
	d := draftWithSkus(t, true)
	global := d.Global
	global.Config.ManageStock = true
	d.SetGlobalConfig(global)

	for _, s := range d.Skus {
		if !s.Config.ManageStock {
			t.Fatalf("sku %s should manage stock in shared mode", s.Code)
		}
	}
	for _, s := range d.Generated {
		if !s.Config.ManageStock {
			t.Fatalf("candidate %s should manage stock in shared mode", s.Code)
		}
	}
	if d.ConfigMode() != ConfigModeShared {
		t.Fatalf("unexpected mode %s", d.ConfigMode())
	}
}

func TestSetGlobalConfig_IndependentLeavesSkus(t *testing.T) {
	d := draftWithSkus(t, false)
	global := d.Global
	global.Config.ManageStock = true
	d.SetGlobalConfig(global)

	for _, s := range d.Skus {
		if s.Config.ManageStock {
			t.Fatalf("sku %s should keep its own config in independent mode", s.Code)
		}
	}

	if err := d.ResetSkuToGlobal(d.Skus[0].LocalId); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !d.Skus[0].Config.ManageStock || d.Skus[1].Config.ManageStock {
		t.Fatalf("reset should only touch one sku")
	}
}

func TestSetUseSameConfig(t *testing.T) {
	d := draftWithSkus(t, false)
	d.Skus[0].Config.TrackBatch = true

	d.SetUseSameConfig(true)
	if d.Skus[0].Config.TrackBatch {
		t.Fatalf("entering shared mode should mirror the global config")
	}

	d.SetUseSameConfig(false)
	d.Skus[1].Config.TrackBatch = true
	d.RegenerateSkus(false)
	if !d.Skus[1].Config.TrackBatch {
		t.Fatalf("independent mode should keep per sku config across regeneration")
	}
}
