package workflow

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/bsm/redislock"
)

type ReferenceDataProvider interface {
	FetchReferenceData(ctx context.Context) (*models.ReferenceData, error)
}

type ItemDetailFetcher interface {
	FetchItemDetail(ctx context.Context, id int, relations ...string) (*models.Item, error)
}

type ItemSubmitter interface {
	SubmitItem(ctx context.Context, payload *models.ItemPayload) (*models.Item, error)
}

type ItemStore interface {
	ItemDetailFetcher
	ItemSubmitter
}

type EventPublisher interface {
	PublishItemEvent(ctx context.Context, msg config.ItemEventMessage) (string, error)
}

// SubmitLocker serializes submits of the same item across instances.
type SubmitLocker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// ReferenceDataFunc adapts a function to ReferenceDataProvider.
type ReferenceDataFunc func(ctx context.Context) (*models.ReferenceData, error)

func (f ReferenceDataFunc) FetchReferenceData(ctx context.Context) (*models.ReferenceData, error) {
	return f(ctx)
}

// PubSubPublisher publishes to the configured topic, a no-op when no topic is set.
type PubSubPublisher struct{}

func (PubSubPublisher) PublishItemEvent(ctx context.Context, msg config.ItemEventMessage) (string, error) {
	if !config.ItemEventsEnabled() {
		return "", nil
	}
	return config.PublishItemEvent(ctx, msg)
}

// RedisSubmitLocker uses redislock. A nil client (redis not connected) locks nothing.
type RedisSubmitLocker struct {
	Client *redislock.Client
}

func (l RedisSubmitLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.Client == nil {
		return func() {}, nil
	}
	lock, err := l.Client.Obtain(ctx, key, ttl, nil)
	if err == redislock.ErrNotObtained {
		return nil, utils.ErrSubmitInProgress
	} else if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && err != redislock.ErrLockNotHeld {
			config.LogError(config.GetLogger(), "collaborators.go", "RedisSubmitLocker", "releasing "+key, nil, err)
		}
	}, nil
}
