package workflow

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

const testBusinessId = "6f1c2c1e-3a52-4c7e-9a0e-2b8d0f6b1a11"

func testContext() context.Context {
	return utils.SetBusinessIdInContext(context.Background(), testBusinessId)
}

var testUnits = []*models.ProductUnit{
	{ID: 1, Name: "Piece", Abbreviation: "PCS"},
	{ID: 2, Name: "Box", Abbreviation: "BOX"},
}

func fakeRefs() ReferenceDataFunc {
	return func(ctx context.Context) (*models.ReferenceData, error) {
		return &models.ReferenceData{Units: testUnits}, nil
	}
}

// fakeStore keeps one item and assigns ids on submit.
type fakeStore struct {
	mu       sync.Mutex
	item     *models.Item
	payloads []*models.ItemPayload
	err      error
}

func (s *fakeStore) FetchItemDetail(ctx context.Context, id int, relations ...string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.item == nil || s.item.ID != id {
		return nil, utils.ErrorRecordNotFound
	}
	return s.item, nil
}

// SubmitItem supports unit-only items, which is all the tests need.
func (s *fakeStore) SubmitItem(ctx context.Context, p *models.ItemPayload) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	if s.err != nil {
		return nil, s.err
	}
	if err := models.ValidateItemPayload(p); err != nil {
		return nil, err
	}
	item := &models.Item{ID: 99, Name: p.Name, HasVariants: utils.NewFalse()}
	unitIds := make(map[string]int)
	for i, u := range p.Units {
		id := 100 + i
		unitIds[u.LocalId] = id
		isBase := u.IsBase
		item.Units = append(item.Units, models.ItemUnit{ID: id, UnitId: u.UnitId, ConversionFactor: u.ConversionFactor, IsBase: &isBase})
	}
	for i, sku := range p.Skus {
		unitId := unitIds[sku.UnitRef.LocalId]
		item.Skus = append(item.Skus, models.ItemSku{
			ID:          200 + i,
			Code:        sku.Code,
			DisplayName: sku.DisplayName,
			ItemUnitId:  &unitId,
			PriceAmount: sku.Price.Amount,
			PriceMinQty: decimal.NewFromInt(1),
		})
	}
	s.item = item
	return item, nil
}

type fakeLocker struct {
	mu   sync.Mutex
	keys []string
	busy bool
}

func (l *fakeLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return nil, utils.ErrSubmitInProgress
	}
	l.keys = append(l.keys, key)
	return func() {}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []config.ItemEventMessage
}

func (p *fakePublisher) PublishItemEvent(ctx context.Context, msg config.ItemEventMessage) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return "msg-1", nil
}
