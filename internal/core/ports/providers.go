package ports

import (
	"context"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

// GeocodingProvider forward- and reverse-geocodes locations.
// Both methods return an empty slice, not an error, when nothing matches.
type GeocodingProvider interface {
	Geocode(ctx context.Context, address string) ([]domain.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, c domain.Coordinate) ([]domain.GeocodeResult, error)
}

// PlacesSearcher retrieves raw trail candidates around a point. It neither
// sorts nor filters; the order is whatever the provider returned.
type PlacesSearcher interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error)
}

// PlaceAutocompleter suggests places for partially typed input.
type PlaceAutocompleter interface {
	Autocomplete(ctx context.Context, input string) ([]domain.Suggestion, error)
}

// StaticMapProvider renders a map preview centred on a coordinate.
type StaticMapProvider interface {
	StaticMap(ctx context.Context, center domain.Coordinate) (*domain.MapImage, error)
}

// PhotoProvider returns a background photo for a free-text query.
type PhotoProvider interface {
	RandomPhoto(ctx context.Context, query string) (*domain.Photo, error)
}

// NewsSource returns the most recent headlines in feed order.
type NewsSource interface {
	Latest(ctx context.Context, limit int) ([]domain.Headline, error)
}
