package ports

import (
	"context"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSearchCompleted(ctx context.Context, event *domain.SearchEvent) error
	PublishHeadlines(ctx context.Context, headlines []domain.Headline) error
}

// EventSubscriber subscribes to domain events from a message broker.
// The returned function cancels the subscription.
type EventSubscriber interface {
	SubscribeHeadlines(ctx context.Context, handler func(ctx context.Context, headlines []domain.Headline) error) (func(), error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
