package usecases_test

import (
	"math"
	"testing"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
)

var sanFrancisco = domain.Coordinate{Lat: 37.7749, Lon: -122.4194}

func TestRank_OrdersByDistance(t *testing.T) {
	candidates := []domain.TrailCandidate{
		{ProviderID: "far", Name: "Far Ridge", Coordinate: domain.Coordinate{Lat: 38.5, Lon: -122.4}},
		{ProviderID: "near", Name: "Near Loop", Coordinate: domain.Coordinate{Lat: 37.78, Lon: -122.42}},
		{ProviderID: "mid", Name: "Mid Park", Coordinate: domain.Coordinate{Lat: 37.8199, Lon: -122.4783}},
	}

	ranked := usecases.Rank(sanFrancisco, candidates)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 trails, got %d", len(ranked))
	}

	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if ranked[i].ProviderID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, ranked[i].ProviderID)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].DistanceKm > ranked[i].DistanceKm {
			t.Errorf("not sorted at %d: %.3f > %.3f", i, ranked[i-1].DistanceKm, ranked[i].DistanceKm)
		}
	}
}

func TestRank_GoldenGateDistance(t *testing.T) {
	ranked := usecases.Rank(sanFrancisco, []domain.TrailCandidate{
		{ProviderID: "gg", Name: "Golden Gate", Coordinate: domain.Coordinate{Lat: 37.8199, Lon: -122.4783}},
	})

	if math.Abs(ranked[0].DistanceKm-6.3) > 0.2 {
		t.Errorf("expected ~6.3 km, got %.3f", ranked[0].DistanceKm)
	}
	if ranked[0].MapURL != "https://www.google.com/maps/place/?q=place_id:gg" {
		t.Errorf("unexpected map url: %s", ranked[0].MapURL)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	same := domain.Coordinate{Lat: 37.8, Lon: -122.4}
	candidates := []domain.TrailCandidate{
		{ProviderID: "a", Coordinate: same},
		{ProviderID: "b", Coordinate: same},
		{ProviderID: "c", Coordinate: same},
	}

	ranked := usecases.Rank(sanFrancisco, candidates)
	for i, id := range []string{"a", "b", "c"} {
		if ranked[i].ProviderID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, ranked[i].ProviderID)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	ranked := usecases.Rank(sanFrancisco, nil)
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", ranked)
	}
}

func TestRank_KeepsCandidateFields(t *testing.T) {
	ranked := usecases.Rank(sanFrancisco, []domain.TrailCandidate{
		{ProviderID: "x", Name: "Lands End", Vicinity: "San Francisco", Rating: ptr(4.8)},
	})
	got := ranked[0]
	if got.Name != "Lands End" || got.Vicinity != "San Francisco" {
		t.Errorf("candidate fields lost: %+v", got)
	}
	if got.Rating == nil || *got.Rating != 4.8 {
		t.Errorf("rating lost: %v", got.Rating)
	}
}
