package domain

import (
	"fmt"
	"math"
)

// Coordinate represents a geographic coordinate (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the coordinate lies within the valid ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("%w: not a number", ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %.6f out of range [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %.6f out of range [-180, 180]", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// String formats the coordinate the way the Google APIs expect ("lat,lon").
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Location is a resolved coordinate with a human-readable label.
type Location struct {
	Coordinate  Coordinate `json:"coordinate"`
	DisplayName string     `json:"display_name,omitempty"`
}

// AddressComponent is one part of a geocoded address (e.g. a locality).
type AddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

// GeocodeResult is a single match returned by a geocoding provider.
type GeocodeResult struct {
	FormattedAddress string             `json:"formatted_address"`
	Components       []AddressComponent `json:"address_components"`
	Location         Coordinate         `json:"location"`
}

// Suggestion is an autocomplete prediction for a partially typed place.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// MapImage is a rendered static map preview.
type MapImage struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
