package usecases

import (
	"sort"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/pkg/geospatial"
)

const mapURLPrefix = "https://www.google.com/maps/place/?q=place_id:"

// MapURL returns the Google Maps link for a place.
func MapURL(providerID string) string {
	return mapURLPrefix + providerID
}

// Rank attaches the great-circle distance from origin to every candidate and
// returns them nearest first. Candidates at equal distance keep their input order.
func Rank(origin domain.Coordinate, candidates []domain.TrailCandidate) []domain.RankedTrail {
	ranked := make([]domain.RankedTrail, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, domain.RankedTrail{
			TrailCandidate: c,
			DistanceKm: geospatial.HaversineKm(
				origin.Lat, origin.Lon,
				c.Coordinate.Lat, c.Coordinate.Lon,
			),
			MapURL: MapURL(c.ProviderID),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
