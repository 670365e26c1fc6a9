package domain

import "time"

const (
	DefaultRadiusMeters = 20000
	DefaultKeyword      = "trail"
	UnknownVicinity     = "Unknown location"
)

// SearchQuery describes one nearby-trail lookup. Origin is nil when no
// location could be determined.
type SearchQuery struct {
	Origin       *Coordinate `json:"origin"`
	RadiusMeters int         `json:"radius_meters"`
	Keyword      string      `json:"keyword"`
}

// NewSearchQuery builds a query around origin, applying the default radius
// and keyword when they are unset.
func NewSearchQuery(origin Coordinate, radiusMeters int, keyword string) SearchQuery {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if keyword == "" {
		keyword = DefaultKeyword
	}
	return SearchQuery{Origin: &origin, RadiusMeters: radiusMeters, Keyword: keyword}
}

// TrailCandidate is a point of interest as returned by the places provider.
type TrailCandidate struct {
	ProviderID string     `json:"id"`
	Name       string     `json:"name"`
	Vicinity   string     `json:"location"`
	Coordinate Coordinate `json:"coordinate"`
	Rating     *float64   `json:"rating,omitempty"`
}

// RankedTrail is a candidate with its distance from the search origin.
type RankedTrail struct {
	TrailCandidate
	DistanceKm float64 `json:"distance_km"`
	MapURL     string  `json:"map_url"`
}

// TaggedTrail is a ranked trail with name-derived descriptive tags.
type TaggedTrail struct {
	RankedTrail
	Tags []string `json:"tags"`
}

// SearchEvent is published after every completed search.
type SearchEvent struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"` // "text" | "device"
	Origin       Coordinate `json:"origin"`
	RadiusMeters int        `json:"radius_meters"`
	Keyword      string     `json:"keyword"`
	ResultCount  int        `json:"result_count"`
	OccurredAt   time.Time  `json:"occurred_at"`
}
