package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

var errCacheMiss = errors.New("cache miss")

// --- Mock GeocodingProvider ---

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, address string) ([]domain.GeocodeResult, error)
	reverseFn func(ctx context.Context, c domain.Coordinate) ([]domain.GeocodeResult, error)

	mu    sync.Mutex
	calls int
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) ([]domain.GeocodeResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return nil, nil
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) ([]domain.GeocodeResult, error) {
	if m.reverseFn != nil {
		return m.reverseFn(ctx, c)
	}
	return nil, nil
}

func (m *mockGeocoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock PlacesSearcher ---

type mockPlaces struct {
	searchFn func(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error)

	mu    sync.Mutex
	calls int
	last  domain.SearchQuery
}

func (m *mockPlaces) Search(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error) {
	m.mu.Lock()
	m.calls++
	m.last = q
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockPlaces) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	searches  []*domain.SearchEvent
	headlines [][]domain.Headline
	done      chan struct{}
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{done: make(chan struct{}, 8)}
}

func (m *mockPublisher) PublishSearchCompleted(ctx context.Context, event *domain.SearchEvent) error {
	m.mu.Lock()
	m.searches = append(m.searches, event)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func (m *mockPublisher) PublishHeadlines(ctx context.Context, headlines []domain.Headline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headlines = append(m.headlines, headlines)
	return nil
}

// --- Mock NewsSource ---

type mockNews struct {
	latestFn func(ctx context.Context, limit int) ([]domain.Headline, error)

	mu    sync.Mutex
	calls int
}

func (m *mockNews) Latest(ctx context.Context, limit int) ([]domain.Headline, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.latestFn != nil {
		return m.latestFn(ctx, limit)
	}
	return nil, nil
}

func ptr(f float64) *float64 { return &f }
