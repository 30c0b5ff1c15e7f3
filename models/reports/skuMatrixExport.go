package reports

import (
	"fmt"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"github.com/xuri/excelize/v2"
)

const (
	SkuMatrixSheet = "SKU Matrix"

	SkuStatusExisting = "existing"
	SkuStatusNew      = "new"
	SkuStatusMissing  = "missing"
	SkuStatusOrphaned = "orphaned"
)

var skuMatrixHeader = []interface{}{"Code", "Name", "Variant", "Unit", "Status", "Cost", "Price", "Barcode"}

type SkuMatrixRow struct {
	Code    string
	Name    string
	Variant string
	Unit    string
	Status  string
	Cost    string
	Price   string
	Barcode string
}

// BuildSkuMatrixRows lists every generated candidate with its status, then the
// confirmed skus no candidate produces anymore.
func BuildSkuMatrixRows(d *models.ItemDraft) []SkuMatrixRow {
	confirmed := make(map[string]models.Sku, len(d.Skus))
	for _, s := range d.Skus {
		if _, ok := confirmed[s.Code]; !ok {
			confirmed[s.Code] = s
		}
	}

	rows := make([]SkuMatrixRow, 0, len(d.Generated))
	for _, g := range d.Generated {
		row := skuRow(d, g)
		if s, ok := confirmed[g.Code]; ok {
			row = skuRow(d, s)
			row.Status = SkuStatusNew
			if s.IsPersisted() {
				row.Status = SkuStatusExisting
			}
		} else {
			row.Status = SkuStatusMissing
		}
		rows = append(rows, row)
	}
	for _, s := range d.OrphanedSkus() {
		row := skuRow(d, s)
		row.Status = SkuStatusOrphaned
		rows = append(rows, row)
	}
	return rows
}

func skuRow(d *models.ItemDraft, s models.Sku) SkuMatrixRow {
	row := SkuMatrixRow{
		Code:    s.Code,
		Name:    s.DisplayName,
		Cost:    s.Cost.Amount.StringFixed(2),
		Price:   s.Price.Amount.StringFixed(2),
		Barcode: s.Barcode,
	}
	unitLocalId := ""
	if s.UnitRef != nil {
		unitLocalId = s.UnitRef.LocalId
	}
	if s.VariantUnitRef != nil {
		for _, vu := range d.VariantUnits {
			if vu.LocalId != s.VariantUnitRef.LocalId {
				continue
			}
			unitLocalId = vu.UnitLocalId
			for _, v := range d.Variants {
				if v.LocalId == vu.VariantLocalId {
					row.Variant = v.DisplayName
				}
			}
		}
	}
	for _, u := range d.Units {
		if u.LocalId == unitLocalId {
			row.Unit = u.Code
		}
	}
	return row
}

// ExportSkuMatrix writes the sku matrix of the draft to a new workbook.
func ExportSkuMatrix(d *models.ItemDraft) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SkuMatrixSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SkuMatrixSheet, "A1", &skuMatrixHeader); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(SkuMatrixSheet, 1, 1, style); err != nil {
		return nil, err
	}

	for i, r := range BuildSkuMatrixRows(d) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.Code, r.Name, r.Variant, r.Unit, r.Status, r.Cost, r.Price, r.Barcode}
		if err := f.SetSheetRow(SkuMatrixSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing %s: %w", r.Code, err)
		}
	}
	if err := f.SetColWidth(SkuMatrixSheet, "A", "B", 32); err != nil {
		return nil, err
	}
	return f, nil
}
