package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	submitLockTTL    = 30 * time.Second
	reapInterval     = time.Minute
	ItemActionCreate = "created"
	ItemActionUpdate = "updated"
)

// SessionRegistry keeps the open item forms of this instance.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*ItemFormPipeline

	refs      ReferenceDataProvider
	store     ItemStore
	locker    SubmitLocker
	publisher EventPublisher

	debounce    time.Duration
	idleTimeout time.Duration
	logger      *logrus.Logger
}

func NewSessionRegistry(refs ReferenceDataProvider, store ItemStore, locker SubmitLocker, publisher EventPublisher) *SessionRegistry {
	return &SessionRegistry{
		sessions:    make(map[string]*ItemFormPipeline),
		refs:        refs,
		store:       store,
		locker:      locker,
		publisher:   publisher,
		debounce:    config.RegenerationDebounce(),
		idleTimeout: config.SessionIdleTimeout(),
		logger:      config.GetLogger(),
	}
}

// SetDebounce changes the debounce of sessions opened afterwards.
func (r *SessionRegistry) SetDebounce(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debounce = d
}

func (r *SessionRegistry) newPipeline(ctx context.Context) (*ItemFormPipeline, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	r.mu.Lock()
	delay := r.debounce
	r.mu.Unlock()
	return NewItemFormPipeline(uuid.NewString(), businessId, delay), nil
}

func (r *SessionRegistry) add(p *ItemFormPipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[p.Id()] = p
}

// Open starts a form for a new item.
func (r *SessionRegistry) Open(ctx context.Context) (*ItemFormPipeline, error) {
	p, err := r.newPipeline(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Start(ctx, r.refs); err != nil {
		p.Close()
		return nil, err
	}
	r.add(p)
	return p, nil
}

// OpenItem starts a form for an existing item.
func (r *SessionRegistry) OpenItem(ctx context.Context, itemId int) (*ItemFormPipeline, error) {
	p, err := r.newPipeline(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Load(ctx, r.refs, r.store, itemId); err != nil {
		p.Close()
		return nil, err
	}
	r.add(p)
	return p, nil
}

// Get returns the session if it belongs to the business in ctx.
func (r *SessionRegistry) Get(ctx context.Context, id string) (*ItemFormPipeline, error) {
	businessId, _ := utils.GetBusinessIdFromContext(ctx)
	r.mu.Lock()
	p, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok || p.BusinessId() != businessId {
		return nil, utils.ErrSessionNotFound
	}
	return p, nil
}

func (r *SessionRegistry) Close(ctx context.Context, id string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	p.Close()
	return nil
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Submit saves the draft of a session. Pending regeneration runs first, the item is locked
// for the duration of the save, and the session continues with the saved item.
func (r *SessionRegistry) Submit(ctx context.Context, id string, idempotencyKey string) (*models.Item, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "SessionRegistry.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("form.session", id))

	var itemId *int
	p.Read(func(d *models.ItemDraft) {
		if d.ItemId != nil {
			v := *d.ItemId
			itemId = &v
		}
	})
	lockKey := fmt.Sprintf("ItemSubmit:%s:session-%s", p.BusinessId(), id)
	if itemId != nil {
		lockKey = fmt.Sprintf("ItemSubmit:%s:%s", p.BusinessId(), strconv.Itoa(*itemId))
	}
	release, err := r.locker.Obtain(ctx, lockKey, submitLockTTL)
	if err != nil {
		config.LogError(r.logger, "itemFormSession.go", "Submit", "obtaining "+lockKey, nil, err)
		return nil, err
	}
	defer release()

	p.Flush()
	var (
		payload *models.ItemPayload
		axes    []models.VariantAxis
	)
	p.Read(func(d *models.ItemDraft) {
		payload = models.BuildItemPayload(d)
		axes = d.Clone().Axes
	})
	payload.IdempotencyKey = idempotencyKey

	saved, err := r.store.SubmitItem(ctx, payload)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var units []*models.ProductUnit
	if reference := p.Reference(); reference != nil {
		units = reference.Units
	}
	draft, err := models.NormalizeItem(saved, units)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	// the store keeps variants only, inactive options and disabled axes live in the session
	draft.Axes = axes
	p.Replace(draft)

	action := ItemActionUpdate
	if itemId == nil {
		action = ItemActionCreate
	}
	r.publishSaved(ctx, p, saved.ID, action)
	return saved, nil
}

// publishSaved is best effort; the item is already committed.
func (r *SessionRegistry) publishSaved(ctx context.Context, p *ItemFormPipeline, itemId int, action string) {
	if r.publisher == nil {
		return
	}
	var codes []string
	p.Read(func(d *models.ItemDraft) {
		codes = skuCodesOf(d)
	})
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	username, _ := utils.GetUsernameFromContext(ctx)
	msg := config.ItemEventMessage{
		BusinessId:    p.BusinessId(),
		ItemId:        itemId,
		Action:        action,
		SkuCodes:      codes,
		SavedAt:       time.Now().UTC(),
		SavedBy:       username,
		CorrelationId: correlationId,
	}
	if _, err := r.publisher.PublishItemEvent(ctx, msg); err != nil {
		config.LogError(r.logger, "itemFormSession.go", "publishSaved", "publishing item event", msg, err)
	}
}

// ReapIdle closes sessions idle since before now minus the idle timeout.
func (r *SessionRegistry) ReapIdle(now time.Time) int {
	r.mu.Lock()
	expired := make([]*ItemFormPipeline, 0)
	for id, p := range r.sessions {
		if now.Sub(p.LastActivity()) > r.idleTimeout {
			expired = append(expired, p)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, p := range expired {
		p.Close()
	}
	if len(expired) > 0 {
		r.logger.WithFields(logrus.Fields{
			"field":   "ReapIdle",
			"expired": len(expired),
		}).Info("closed idle item form sessions")
	}
	return len(expired)
}

// RunReaper reaps idle sessions until ctx is done.
func (r *SessionRegistry) RunReaper(ctx context.Context) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.ReapIdle(now)
		}
	}
}

// CloseAll closes every session, used on shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*ItemFormPipeline)
	r.mu.Unlock()
	for _, p := range sessions {
		p.Close()
	}
}
