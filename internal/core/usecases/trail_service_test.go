package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
)

func newTrailService(geo *mockGeocoder, places *mockPlaces, events *mockPublisher) *usecases.TrailService {
	resolver := usecases.NewGeoResolver(geo, nil, time.Second)
	opts := usecases.SearchOptions{CallTimeout: time.Second}
	if events == nil {
		return usecases.NewTrailService(resolver, places, nil, nil, opts)
	}
	return usecases.NewTrailService(resolver, places, nil, events, opts)
}

func portlandGeocoder() *mockGeocoder {
	return &mockGeocoder{
		geocodeFn: func(ctx context.Context, address string) ([]domain.GeocodeResult, error) {
			return []domain.GeocodeResult{{FormattedAddress: "Portland, OR, USA", Location: domain.Coordinate{Lat: 45.5152, Lon: -122.6784}}}, nil
		},
	}
}

func TestTrailService_Search_Text(t *testing.T) {
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error) {
			return []domain.TrailCandidate{
				{ProviderID: "far", Name: "Multnomah Falls", Coordinate: domain.Coordinate{Lat: 45.5762, Lon: -122.1158}},
				{ProviderID: "near", Name: "Wildwood Trail", Coordinate: domain.Coordinate{Lat: 45.5260, Lon: -122.7160}},
			}, nil
		},
	}
	events := newMockPublisher()
	svc := newTrailService(portlandGeocoder(), places, events)

	res, err := svc.Search(context.Background(), usecases.SearchRequest{Location: "Portland"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Source != usecases.SourceText {
		t.Errorf("expected text source, got %s", res.Source)
	}
	if res.Origin.DisplayName != "Portland, OR, USA" {
		t.Errorf("unexpected origin: %+v", res.Origin)
	}
	if places.last.RadiusMeters != 20000 || places.last.Keyword != "trail" {
		t.Errorf("expected default radius and keyword, got %+v", places.last)
	}
	if len(res.Trails) != 2 || res.Trails[0].ProviderID != "near" {
		t.Fatalf("expected nearest first, got %+v", res.Trails)
	}
	if len(res.Trails[0].Tags) != 1 || res.Trails[0].Tags[0] != usecases.TagGoodWalk {
		t.Errorf("unexpected tags: %v", res.Trails[0].Tags)
	}

	select {
	case <-events.done:
	case <-time.After(2 * time.Second):
		t.Fatal("search event not published")
	}
	events.mu.Lock()
	defer events.mu.Unlock()
	if events.searches[0].ResultCount != 2 || events.searches[0].ID == "" {
		t.Errorf("unexpected event: %+v", events.searches[0])
	}
}

func TestTrailService_Search_TextWinsOverDevice(t *testing.T) {
	places := &mockPlaces{}
	svc := newTrailService(portlandGeocoder(), places, nil)

	res, err := svc.Search(context.Background(), usecases.SearchRequest{
		Location: "Portland",
		Device:   &sanFrancisco,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != usecases.SourceText || places.last.Origin.Lat != 45.5152 {
		t.Errorf("expected text origin, got %+v", res)
	}
}

func TestTrailService_Search_Device(t *testing.T) {
	geo := &mockGeocoder{
		reverseFn: func(ctx context.Context, c domain.Coordinate) ([]domain.GeocodeResult, error) {
			return []domain.GeocodeResult{{
				FormattedAddress: "San Francisco, CA, USA",
				Components:       []domain.AddressComponent{{LongName: "San Francisco", Types: []string{"locality"}}},
			}}, nil
		},
	}
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error) {
			return []domain.TrailCandidate{}, nil
		},
	}
	svc := newTrailService(geo, places, nil)

	res, err := svc.Search(context.Background(), usecases.SearchRequest{Device: &sanFrancisco, RadiusMeters: 5000, Keyword: "hike"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != usecases.SourceDevice || res.Origin.DisplayName != "San Francisco" {
		t.Errorf("unexpected origin: %+v", res.Origin)
	}
	if places.last.RadiusMeters != 5000 || places.last.Keyword != "hike" {
		t.Errorf("explicit query overridden: %+v", places.last)
	}
	if res.Trails == nil || len(res.Trails) != 0 {
		t.Errorf("expected empty non-nil trail list, got %#v", res.Trails)
	}
	if geo.Calls() != 0 {
		t.Errorf("forward geocoding should not run for device searches")
	}
}

func TestTrailService_Search_NoLocation(t *testing.T) {
	places := &mockPlaces{}
	svc := newTrailService(&mockGeocoder{}, places, nil)

	_, err := svc.Search(context.Background(), usecases.SearchRequest{})
	if !errors.Is(err, domain.ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}
	if domain.StateOf(err) != domain.StateLocationNotFound {
		t.Errorf("expected location_not_found state")
	}
	if places.Calls() != 0 {
		t.Errorf("places should not be called")
	}
}

func TestTrailService_Search_GeocodeNotFoundSkipsPlaces(t *testing.T) {
	geo := &mockGeocoder{
		geocodeFn: func(ctx context.Context, address string) ([]domain.GeocodeResult, error) {
			return nil, nil
		},
	}
	places := &mockPlaces{}
	svc := newTrailService(geo, places, nil)

	_, err := svc.Search(context.Background(), usecases.SearchRequest{Location: "Atlantis"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if places.Calls() != 0 {
		t.Errorf("places should not be called after a failed geocode")
	}
}

func TestTrailService_Search_UpstreamFormat(t *testing.T) {
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error) {
			return nil, &domain.ProviderError{Provider: "google", Op: "nearbysearch", Kind: domain.ErrUpstreamFormat}
		},
	}
	svc := newTrailService(portlandGeocoder(), places, nil)

	_, err := svc.Search(context.Background(), usecases.SearchRequest{Location: "Portland"})
	if !errors.Is(err, domain.ErrUpstreamFormat) {
		t.Fatalf("expected ErrUpstreamFormat, got %v", err)
	}
	if domain.StateOf(err) != domain.StateRequestFailed {
		t.Errorf("expected request_failed state")
	}
}

func TestTrailService_Search_InvalidDevice(t *testing.T) {
	places := &mockPlaces{}
	svc := newTrailService(&mockGeocoder{}, places, nil)

	_, err := svc.Search(context.Background(), usecases.SearchRequest{Device: &domain.Coordinate{Lat: 123, Lon: 0}})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if places.Calls() != 0 {
		t.Errorf("places should not be called")
	}
}

func TestTrailService_Nearby_MissingOrigin(t *testing.T) {
	places := &mockPlaces{}
	svc := newTrailService(&mockGeocoder{}, places, nil)

	_, err := svc.Nearby(context.Background(), domain.SearchQuery{RadiusMeters: 20000, Keyword: "trail"})
	if !errors.Is(err, domain.ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if places.Calls() != 0 {
		t.Errorf("no network call expected without an origin")
	}
}

func TestTrailService_Nearby_Cached(t *testing.T) {
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error) {
			return []domain.TrailCandidate{{ProviderID: "p1", Name: "Lake Trail"}}, nil
		},
	}
	resolver := usecases.NewGeoResolver(&mockGeocoder{}, nil, time.Second)
	svc := usecases.NewTrailService(resolver, places, newMemCache(), nil, usecases.SearchOptions{})

	q := domain.NewSearchQuery(sanFrancisco, 0, "")
	for i := 0; i < 2; i++ {
		trails, err := svc.Nearby(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(trails) != 1 || trails[0].ProviderID != "p1" {
			t.Fatalf("unexpected trails: %+v", trails)
		}
	}
	if places.Calls() != 1 {
		t.Errorf("expected 1 provider call, got %d", places.Calls())
	}
}
