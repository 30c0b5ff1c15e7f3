package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

type memoryStore struct {
	item     *models.Item
	payloads []*models.ItemPayload
}

func (s *memoryStore) FetchItemDetail(ctx context.Context, id int, relations ...string) (*models.Item, error) {
	if s.item == nil || s.item.ID != id {
		return nil, utils.ErrorRecordNotFound
	}
	return s.item, nil
}

func (s *memoryStore) SubmitItem(ctx context.Context, p *models.ItemPayload) (*models.Item, error) {
	s.payloads = append(s.payloads, p)
	return s.item, nil
}

// tehWithoutSkus has a base unit but no confirmed sku, so TEH-PCS is missing.
func tehWithoutSkus() *models.Item {
	return &models.Item{
		ID:          7,
		Name:        "Teh",
		HasVariants: utils.NewFalse(),
		Units: []models.ItemUnit{
			{ID: 70, UnitId: 1, ConversionFactor: decimal.NewFromInt(1), IsBase: utils.NewTrue()},
		},
	}
}

var rebuildUnits = []*models.ProductUnit{{ID: 1, Name: "Piece", Abbreviation: "PCS"}}

func TestRebuildItem_ReportsMissingWithoutSaving(t *testing.T) {
	store := &memoryStore{item: tehWithoutSkus()}
	var out bytes.Buffer
	if err := rebuildItem(context.Background(), &out, store, rebuildUnits, 7, false, false); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !strings.Contains(out.String(), "missing=1") || !strings.Contains(out.String(), "  missing TEH-PCS") {
		t.Fatalf("report should list the missing code, got:\n%s", out.String())
	}
	if len(store.payloads) != 0 {
		t.Fatalf("report only run should not save")
	}
}

func TestRebuildItem_AcceptMissing(t *testing.T) {
	store := &memoryStore{item: tehWithoutSkus()}
	var out bytes.Buffer
	if err := rebuildItem(context.Background(), &out, store, rebuildUnits, 7, true, true); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(store.payloads) != 0 || !strings.Contains(out.String(), "  missing TEH-PCS") {
		t.Fatalf("dry run should report and not save, got %d saves:\n%s", len(store.payloads), out.String())
	}

	out.Reset()
	if err := rebuildItem(context.Background(), &out, store, rebuildUnits, 7, true, false); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(store.payloads) != 1 {
		t.Fatalf("expected one save, got %d", len(store.payloads))
	}
	payload := store.payloads[0]
	if len(payload.Skus) != 1 || payload.Skus[0].Code != "TEH-PCS" || payload.IdempotencyKey == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if !strings.Contains(out.String(), "saved 1 new skus") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	again := &memoryStore{item: tehWithoutSkus()}
	if err := rebuildItem(context.Background(), &out, again, rebuildUnits, 7, true, false); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if again.payloads[0].IdempotencyKey != payload.IdempotencyKey {
		t.Fatalf("idempotency key should be stable for the same item and codes")
	}
}
