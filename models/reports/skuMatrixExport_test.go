package reports

import (
	"testing"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"github.com/shopspring/decimal"
)

func testDraft(t *testing.T) *models.ItemDraft {
	t.Helper()
	d := models.NewItemDraft(true)
	d.SetName("Teh")
	d.SetHasVariants(true)
	f := decimal.NewFromInt(1)
	if _, err := d.AddUnit(&models.ProductUnit{ID: 1, Name: "Piece", Abbreviation: "PCS"}, models.NewUnit{UnitId: 1, ConversionFactor: &f}); err != nil {
		t.Fatalf("add unit: %v", err)
	}
	d.AddAxis("Size", "S", "M")
	d.RegenerateVariants()
	d.AcceptCombinations([]string{"TEH-S-PCS"})
	d.RegenerateSkus(false)
	return d
}

func TestBuildSkuMatrixRows(t *testing.T) {
	d := testDraft(t)
	d.SetName("Teh Tarik")
	d.RegenerateSkus(false)

	rows := BuildSkuMatrixRows(d)
	if len(rows) != 3 {
		t.Fatalf("expected 2 candidates and 1 orphan, got %+v", rows)
	}
	want := []struct{ code, status string }{
		{"TEH-TARIK-S-PCS", SkuStatusMissing},
		{"TEH-TARIK-M-PCS", SkuStatusMissing},
		{"TEH-S-PCS", SkuStatusOrphaned},
	}
	for i, w := range want {
		if rows[i].Code != w.code || rows[i].Status != w.status {
			t.Fatalf("row %d: got %s/%s want %s/%s", i, rows[i].Code, rows[i].Status, w.code, w.status)
		}
	}
	if rows[2].Variant != "S" || rows[2].Unit != "PCS" {
		t.Fatalf("orphan should still resolve variant and unit, got %+v", rows[2])
	}
}

func TestExportSkuMatrix(t *testing.T) {
	d := testDraft(t)
	f, err := ExportSkuMatrix(d)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SkuMatrixSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Code" || rows[1][0] != "TEH-S-PCS" || rows[1][4] != SkuStatusNew || rows[2][4] != SkuStatusMissing {
		t.Fatalf("unexpected sheet %v", rows)
	}
	if rows[1][6] != "0.00" {
		t.Fatalf("price should be written with two decimals, got %q", rows[1][6])
	}
}
