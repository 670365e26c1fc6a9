package http

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
	"github.com/samirrijal/trailmatch/internal/pkg/geospatial"
)

// NearYouMiles is the distance under which a trail is flagged as near the user.
const NearYouMiles = 2.0

// TrailView is one trail card.
type TrailView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	Rating        *float64 `json:"rating,omitempty"`
	DistanceKm    float64  `json:"distance_km"`
	DistanceMiles float64  `json:"distance_miles"`
	DistanceText  string   `json:"distance_text"`
	MapURL        string   `json:"map_url"`
	PreviewURL    string   `json:"preview_url"`
	Tags          []string `json:"tags"`
	NearYou       bool     `json:"near_you"`
}

// OriginView describes where a search was centred.
type OriginView struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	Source      string  `json:"source"`
}

// QueryView echoes the effective search parameters.
type QueryView struct {
	RadiusMeters int    `json:"radius"`
	Keyword      string `json:"keyword"`
}

// TrailsResponse is the body of a successful trail search.
type TrailsResponse struct {
	Origin     OriginView  `json:"origin"`
	Query      QueryView   `json:"query"`
	Data       []TrailView `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// LegacyTrail is the bare array element of the deprecated /api/trails route.
type LegacyTrail struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Rating   *float64 `json:"rating,omitempty"`
	Distance float64  `json:"distance"`
	MapURL   string   `json:"mapUrl"`
}

func toTrailView(t domain.TaggedTrail) TrailView {
	miles := geospatial.KmToMiles(t.DistanceKm)
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TrailView{
		ID:            t.ProviderID,
		Name:          t.Name,
		Location:      t.Vicinity,
		Lat:           t.Coordinate.Lat,
		Lon:           t.Coordinate.Lon,
		Rating:        t.Rating,
		DistanceKm:    t.DistanceKm,
		DistanceMiles: miles,
		DistanceText:  fmt.Sprintf("%.1f mi", miles),
		MapURL:        t.MapURL,
		PreviewURL:    previewURL(t.Coordinate),
		Tags:          tags,
		NearYou:       miles <= NearYouMiles,
	}
}

func toTrailViews(trails []domain.TaggedTrail) []TrailView {
	views := make([]TrailView, 0, len(trails))
	for _, t := range trails {
		views = append(views, toTrailView(t))
	}
	return views
}

func toOriginView(res *usecases.SearchResult) OriginView {
	return OriginView{
		Lat:         res.Origin.Coordinate.Lat,
		Lon:         res.Origin.Coordinate.Lon,
		DisplayName: res.Origin.DisplayName,
		Source:      res.Source,
	}
}

func toLegacyTrails(trails []domain.TaggedTrail) []LegacyTrail {
	out := make([]LegacyTrail, 0, len(trails))
	for _, t := range trails {
		out = append(out, LegacyTrail{
			ID:       t.ProviderID,
			Name:     t.Name,
			Location: t.Vicinity,
			Lat:      t.Coordinate.Lat,
			Lon:      t.Coordinate.Lon,
			Rating:   t.Rating,
			Distance: t.DistanceKm,
			MapURL:   t.MapURL,
		})
	}
	return out
}

// previewURL points at the static map proxy so the provider key stays
// server-side.
func previewURL(c domain.Coordinate) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return "/v1/staticmap?" + q.Encode()
}
