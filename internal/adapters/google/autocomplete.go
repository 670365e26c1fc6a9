package google

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

type autocompleteResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Predictions  []struct {
		Description string `json:"description"`
		PlaceID     string `json:"place_id"`
	} `json:"predictions"`
}

// Autocompleter implements ports.PlaceAutocompleter.
type Autocompleter struct {
	client *Client
}

// NewAutocompleter creates an Autocompleter on top of c.
func NewAutocompleter(c *Client) *Autocompleter {
	return &Autocompleter{client: c}
}

// Autocomplete returns region predictions for input.
func (a *Autocompleter) Autocomplete(ctx context.Context, input string) ([]domain.Suggestion, error) {
	const op = "autocomplete"

	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "(regions)")

	body, _, err := a.client.get(ctx, op, "/place/autocomplete/json", params)
	if err != nil {
		return nil, err
	}

	var resp autocompleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, formatError(op, err)
	}
	if err := checkStatus(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	out := make([]domain.Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, domain.Suggestion{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}
