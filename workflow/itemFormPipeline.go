package workflow

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("catalog-item-form")

// ChangeEvent names what an edit touched. The pipeline decides which stages to rerun from it.
type ChangeEvent string

const (
	EventNameChanged         ChangeEvent = "name"
	EventUnitsChanged        ChangeEvent = "units"
	EventHasVariantsChanged  ChangeEvent = "has_variants"
	EventVariantsChanged     ChangeEvent = "variants"
	EventAxesChanged         ChangeEvent = "axes"
	EventGlobalConfigChanged ChangeEvent = "global_config"
	EventSkusChanged         ChangeEvent = "skus"
)

// ItemFormPipeline owns one ItemDraft and reruns the sku pipeline after edits.
//
// Axis edits go through the variant debouncer, whose pass regenerates variants, relinks
// and regenerates skus. Name, unit, variant and has-variants edits go through the sku
// debouncer. Global config changes propagate synchronously.
type ItemFormPipeline struct {
	mu           sync.Mutex
	id           string
	businessId   string
	draft        *models.ItemDraft
	reference    *models.ReferenceData
	initializing bool
	lastStats    models.RegenerationStats
	lastActivity time.Time

	variantRegen *Debouncer
	skuRegen     *Debouncer
	logger       *logrus.Logger
}

func NewItemFormPipeline(id string, businessId string, delay time.Duration) *ItemFormPipeline {
	p := &ItemFormPipeline{
		id:           id,
		businessId:   businessId,
		draft:        models.NewItemDraft(config.UseSameConfigDefault()),
		initializing: true,
		lastActivity: time.Now(),
		logger:       config.GetLogger(),
	}
	p.variantRegen = NewDebouncer(delay, p.runVariantPass)
	p.skuRegen = NewDebouncer(delay, p.runSkuPass)
	return p
}

func (p *ItemFormPipeline) Id() string {
	return p.id
}

func (p *ItemFormPipeline) BusinessId() string {
	return p.businessId
}

// Start opens a form for a new item.
func (p *ItemFormPipeline) Start(ctx context.Context, refs ReferenceDataProvider) error {
	reference, err := refs.FetchReferenceData(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reference = reference
	p.initializing = false
	p.lastStats = p.draft.RegenerateSkus(false)
	return nil
}

// Load opens a form for an existing item. Reference data and the item detail are fetched
// together, the item is normalized with its local ids back-filled, and only then the
// initialization flag is released and one guarded regeneration pass runs.
func (p *ItemFormPipeline) Load(ctx context.Context, refs ReferenceDataProvider, fetcher ItemDetailFetcher, itemId int) error {
	ctx, span := tracer.Start(ctx, "ItemFormPipeline.Load")
	defer span.End()
	span.SetAttributes(attribute.Int("item.id", itemId))

	var (
		reference *models.ReferenceData
		item      *models.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reference, err = refs.FetchReferenceData(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		item, err = fetcher.FetchItemDetail(gctx, itemId)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	draft, err := models.NormalizeItem(item, reference.Units)
	if err != nil {
		span.RecordError(err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.variantRegen.Cancel()
	p.skuRegen.Cancel()
	p.reference = reference
	p.draft = draft
	p.initializing = false
	p.regenerate(true)
	return nil
}

// Mutate applies fn to the draft and schedules the stages that depend on event.
// Errors from fn are returned as is and schedule nothing.
func (p *ItemFormPipeline) Mutate(event ChangeEvent, fn func(d *models.ItemDraft) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastActivity = time.Now()
	if err := fn(p.draft); err != nil {
		return err
	}
	if p.initializing {
		return nil
	}
	switch event {
	case EventAxesChanged:
		p.variantRegen.Trigger()
	case EventNameChanged, EventUnitsChanged, EventHasVariantsChanged, EventVariantsChanged:
		p.skuRegen.Trigger()
	case EventGlobalConfigChanged:
		if p.draft.UseSameConfig {
			p.draft.ApplyGlobalToAll()
		}
	}
	return nil
}

// Read runs fn with the draft locked. fn must not keep the draft.
func (p *ItemFormPipeline) Read(fn func(d *models.ItemDraft)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.draft)
}

// Flush runs pending debounced passes now. The variant pass runs first since it includes the sku pass.
func (p *ItemFormPipeline) Flush() bool {
	ranVariants := p.variantRegen.Flush()
	if ranVariants {
		p.skuRegen.Cancel()
		return true
	}
	return p.skuRegen.Flush()
}

func (p *ItemFormPipeline) Pending() bool {
	return p.variantRegen.Pending() || p.skuRegen.Pending()
}

// View returns a snapshot of the form state.
func (p *ItemFormPipeline) View() models.ItemFormView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.Clone().View()
}

func (p *ItemFormPipeline) Reference() *models.ReferenceData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reference
}

// AddReferenceUnit makes a unit created during the session selectable without refetching.
func (p *ItemFormPipeline) AddReferenceUnit(unit *models.ProductUnit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := models.ReferenceData{}
	if p.reference != nil {
		next = *p.reference
	}
	next.Units = append(append([]*models.ProductUnit(nil), next.Units...), unit)
	p.reference = &next
	p.lastActivity = time.Now()
}

func (p *ItemFormPipeline) LastStats() models.RegenerationStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStats
}

func (p *ItemFormPipeline) LastActivity() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActivity
}

// Replace swaps in a draft hydrated from the store after a submit.
func (p *ItemFormPipeline) Replace(draft *models.ItemDraft) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.variantRegen.Cancel()
	p.skuRegen.Cancel()
	p.draft = draft
	p.regenerate(false)
}

func (p *ItemFormPipeline) Close() {
	p.variantRegen.Stop()
	p.skuRegen.Stop()
}

func (p *ItemFormPipeline) runVariantPass() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initializing {
		return
	}
	_, span := tracer.Start(context.Background(), "ItemFormPipeline.regenerateVariants")
	defer span.End()
	p.skuRegen.Cancel()
	p.lastStats = p.draft.RegenerateVariants()
	p.logPass("variants", span)
}

func (p *ItemFormPipeline) runSkuPass() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initializing {
		return
	}
	p.regenerate(false)
}

// regenerate relinks and regenerates skus; callers hold mu.
func (p *ItemFormPipeline) regenerate(guard bool) {
	_, span := tracer.Start(context.Background(), "ItemFormPipeline.regenerateSkus")
	defer span.End()
	p.draft.Relink()
	p.lastStats = p.draft.RegenerateSkus(guard)
	p.logPass("skus", span)
}

func (p *ItemFormPipeline) logPass(stage string, span trace.Span) {
	span.SetAttributes(
		attribute.String("form.session", p.id),
		attribute.Int("sku.candidates", p.lastStats.Candidates),
		attribute.Int("sku.missing", p.lastStats.Missing),
		attribute.Bool("sku.guard", p.lastStats.Guarded),
	)
	p.logger.WithFields(logrus.Fields{
		"session":    p.id,
		"stage":      stage,
		"candidates": p.lastStats.Candidates,
		"missing":    p.lastStats.Missing,
		"pruned":     p.lastStats.Pruned,
		"guard":      p.lastStats.Guarded,
	}).Debug("sku matrix regenerated")
}

// skuCodesOf lists the codes of the confirmed skus.
func skuCodesOf(d *models.ItemDraft) []string {
	codes := make([]string, 0, len(d.Skus))
	for _, s := range d.Skus {
		codes = append(codes, s.Code)
	}
	return utils.UniqueSlice(codes)
}
