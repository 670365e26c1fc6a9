package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

const opNearby = "nearbysearch"

type placesResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      json.RawMessage `json:"results"`
}

type placeResult struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location latLng `json:"location"`
	} `json:"geometry"`
	Rating *float64 `json:"rating"`
}

// Places implements ports.PlacesSearcher with the Nearby Search API.
type Places struct {
	client *Client
}

// NewPlaces creates a Places searcher on top of c.
func NewPlaces(c *Client) *Places {
	return &Places{client: c}
}

// Search returns the candidates around q.Origin in provider order.
func (p *Places) Search(ctx context.Context, q domain.SearchQuery) ([]domain.TrailCandidate, error) {
	if q.Origin == nil {
		return nil, fmt.Errorf("%w: lat/lon", domain.ErrMissingParameter)
	}

	params := url.Values{}
	params.Set("location", coordParam(*q.Origin))
	params.Set("radius", strconv.Itoa(q.RadiusMeters))
	params.Set("keyword", q.Keyword)

	body, _, err := p.client.get(ctx, opNearby, "/place/nearbysearch/json", params)
	if err != nil {
		return nil, err
	}
	return decodePlaces(body)
}

func decodePlaces(body []byte) ([]domain.TrailCandidate, error) {
	var resp placesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, formatError(opNearby, err)
	}
	if resp.Status != "" {
		if err := checkStatus(opNearby, resp.Status, resp.ErrorMessage); err != nil {
			return nil, err
		}
	}

	raw := bytes.TrimSpace(resp.Results)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, formatError(opNearby, errors.New("results is not an array"))
	}

	var results []placeResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, formatError(opNearby, err)
	}

	candidates := make([]domain.TrailCandidate, 0, len(results))
	for _, r := range results {
		vicinity := r.Vicinity
		if vicinity == "" {
			vicinity = domain.UnknownVicinity
		}
		candidates = append(candidates, domain.TrailCandidate{
			ProviderID: r.PlaceID,
			Name:       r.Name,
			Vicinity:   vicinity,
			Coordinate: domain.Coordinate{Lat: r.Geometry.Location.Lat, Lon: r.Geometry.Location.Lng},
			Rating:     r.Rating,
		})
	}
	return candidates, nil
}
