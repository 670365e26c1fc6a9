package usecases

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

const (
	// NewsCacheKey holds the most recent MaxHeadlines headlines.
	NewsCacheKey = "news:headlines"
	MaxHeadlines = 20
)

// NewsService serves outdoor-news headlines from cache, falling back to the feed.
type NewsService struct {
	source       ports.NewsSource
	cache        ports.CacheService
	events       ports.EventPublisher
	defaultLimit int
	ttlSeconds   int
	callTimeout  time.Duration
	group        singleflight.Group
}

// NewNewsService creates a new NewsService. cache and events may be nil.
func NewNewsService(source ports.NewsSource, cache ports.CacheService, events ports.EventPublisher, defaultLimit, ttlSeconds int, callTimeout time.Duration) *NewsService {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if ttlSeconds <= 0 {
		ttlSeconds = 1800
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &NewsService{
		source:       source,
		cache:        cache,
		events:       events,
		defaultLimit: defaultLimit,
		ttlSeconds:   ttlSeconds,
		callTimeout:  callTimeout,
	}
}

// Latest returns up to limit headlines, newest first. limit <= 0 means the
// configured default.
func (s *NewsService) Latest(ctx context.Context, limit int) ([]domain.Headline, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxHeadlines {
		limit = MaxHeadlines
	}

	ctx, span := telemetry.Tracer(telemetry.ScopeUsecases).Start(ctx, telemetry.SpanNewsLatest)
	defer span.End()

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, NewsCacheKey); err == nil {
			var headlines []domain.Headline
			if err := json.Unmarshal(data, &headlines); err == nil {
				metrics.CacheHits.WithLabelValues("news").Inc()
				return truncate(headlines, limit), nil
			}
		}
		metrics.CacheMisses.WithLabelValues("news").Inc()
	}

	// Concurrent misses share one feed fetch, detached from any one caller.
	ch := s.group.DoChan(NewsCacheKey, func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return truncate(res.Val.([]domain.Headline), limit), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh pulls the feed, stores it and broadcasts the headlines.
func (s *NewsService) Refresh(ctx context.Context) ([]domain.Headline, error) {
	headlines, err := s.fetch(ctx)
	if err != nil {
		metrics.NewsPolls.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.NewsPolls.WithLabelValues("ok").Inc()

	if s.events != nil && len(headlines) > 0 {
		if err := s.events.PublishHeadlines(ctx, headlines); err != nil {
			return headlines, err
		}
	}
	return headlines, nil
}

func (s *NewsService) fetch(ctx context.Context) ([]domain.Headline, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	headlines, err := s.source.Latest(callCtx, MaxHeadlines)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(headlines); err == nil {
			_ = s.cache.Set(ctx, NewsCacheKey, data, s.ttlSeconds)
		}
	}
	return headlines, nil
}

func truncate(headlines []domain.Headline, limit int) []domain.Headline {
	if len(headlines) > limit {
		return headlines[:limit]
	}
	return headlines
}
