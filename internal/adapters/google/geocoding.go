package google

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress  string `json:"formatted_address"`
	AddressComponents []struct {
		LongName string   `json:"long_name"`
		Types    []string `json:"types"`
	} `json:"address_components"`
	Geometry struct {
		Location latLng `json:"location"`
	} `json:"geometry"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder implements ports.GeocodingProvider.
type Geocoder struct {
	client *Client
}

// NewGeocoder creates a Geocoder on top of c.
func NewGeocoder(c *Client) *Geocoder {
	return &Geocoder{client: c}
}

// Geocode resolves a free-text address. Results keep the provider's ranking.
func (g *Geocoder) Geocode(ctx context.Context, address string) ([]domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", address)
	return g.lookup(ctx, "geocode", params)
}

// ReverseGeocode resolves a coordinate into address candidates.
func (g *Geocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) ([]domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("latlng", coordParam(c))
	return g.lookup(ctx, "reverse_geocode", params)
}

func (g *Geocoder) lookup(ctx context.Context, op string, params url.Values) ([]domain.GeocodeResult, error) {
	body, _, err := g.client.get(ctx, op, "/geocode/json", params)
	if err != nil {
		return nil, err
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, formatError(op, err)
	}
	if err := checkStatus(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	out := make([]domain.GeocodeResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		res := domain.GeocodeResult{
			FormattedAddress: r.FormattedAddress,
			Location:         domain.Coordinate{Lat: r.Geometry.Location.Lat, Lon: r.Geometry.Location.Lng},
		}
		for _, comp := range r.AddressComponents {
			res.Components = append(res.Components, domain.AddressComponent{LongName: comp.LongName, Types: comp.Types})
		}
		out = append(out, res)
	}
	return out, nil
}
