package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
)

func headlines(n int) []domain.Headline {
	out := make([]domain.Headline, n)
	for i := range out {
		out[i] = domain.Headline{Title: fmt.Sprintf("Story %d", i), Link: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestNewsService_Latest_DefaultLimit(t *testing.T) {
	src := &mockNews{
		latestFn: func(ctx context.Context, limit int) ([]domain.Headline, error) {
			return headlines(limit), nil
		},
	}

	svc := usecases.NewNewsService(src, nil, nil, 5, 60, time.Second)
	got, err := svc.Latest(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 headlines, got %d", len(got))
	}
	if got[0].Title != "Story 0" {
		t.Errorf("expected feed order preserved, got %s", got[0].Title)
	}
}

func TestNewsService_Latest_UsesCache(t *testing.T) {
	src := &mockNews{
		latestFn: func(ctx context.Context, limit int) ([]domain.Headline, error) {
			return headlines(8), nil
		},
	}

	svc := usecases.NewNewsService(src, newMemCache(), nil, 5, 60, time.Second)
	if _, err := svc.Latest(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Latest(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 7 {
		t.Errorf("expected 7 from cache, got %d", len(got))
	}
	if src.calls != 1 {
		t.Errorf("expected 1 feed fetch, got %d", src.calls)
	}
}

func TestNewsService_Latest_Error(t *testing.T) {
	src := &mockNews{
		latestFn: func(ctx context.Context, limit int) ([]domain.Headline, error) {
			return nil, &domain.ProviderError{Provider: "rss", Op: "feed", Kind: domain.ErrProvider}
		},
	}

	svc := usecases.NewNewsService(src, nil, nil, 5, 60, time.Second)
	if _, err := svc.Latest(context.Background(), 5); !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestNewsService_Refresh_Publishes(t *testing.T) {
	src := &mockNews{
		latestFn: func(ctx context.Context, limit int) ([]domain.Headline, error) {
			return headlines(2), nil
		},
	}
	events := newMockPublisher()
	cache := newMemCache()

	svc := usecases.NewNewsService(src, cache, events, 5, 60, time.Second)
	got, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 headlines, got %d", len(got))
	}
	if len(events.headlines) != 1 || len(events.headlines[0]) != 2 {
		t.Errorf("expected one broadcast of 2 headlines, got %+v", events.headlines)
	}
	if _, err := cache.Get(context.Background(), usecases.NewsCacheKey); err != nil {
		t.Errorf("expected headlines cached: %v", err)
	}
}

func TestNewsService_Latest_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	src := &mockNews{
		latestFn: func(ctx context.Context, limit int) ([]domain.Headline, error) {
			once.Do(func() { close(started) })
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return headlines(limit), nil
		},
	}
	svc := usecases.NewNewsService(src, nil, nil, 5, 60, 5*time.Second)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Latest(ctxA, 3)
		errA <- err
	}()
	<-started
	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	errB := make(chan error, 1)
	go func() {
		got, err := svc.Latest(context.Background(), 3)
		if err == nil && len(got) != 3 {
			err = fmt.Errorf("expected 3 headlines, got %d", len(got))
		}
		errB <- err
	}()
	close(release)

	if err := <-errB; err != nil {
		t.Fatalf("independent caller failed: %v", err)
	}
}
