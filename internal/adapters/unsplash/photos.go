// Package unsplash implements ports.PhotoProvider with the Unsplash API.
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

const (
	providerName   = "unsplash"
	opRandom       = "random_photo"
	DefaultBaseURL = "https://api.unsplash.com"
)

var errNoAccessKey = errors.New("unsplash access key not configured")

type randomPhoto struct {
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
		Full    string `json:"full"`
	} `json:"urls"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
}

// Client fetches random landscape photos.
type Client struct {
	http      *http.Client
	baseURL   string
	accessKey string
}

// New creates a Client. An empty accessKey makes every call fail fast.
func New(baseURL, accessKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), accessKey: accessKey}
}

// RandomPhoto returns one landscape photo matching query.
func (c *Client) RandomPhoto(ctx context.Context, query string) (photo *domain.Photo, err error) {
	if c.accessKey == "" {
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, Kind: domain.ErrProvider, Err: errNoAccessKey}
	}

	ctx, span := telemetry.Tracer(telemetry.ScopeProviders).Start(ctx, "unsplash.random_photo")
	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
		}
		metrics.ObserveProvider(providerName, opRandom, outcome, started)
		span.End()
	}()

	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photos/random?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, Kind: domain.ErrProvider, Err: err}
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, Kind: domain.ErrProvider, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-Ratelimit-Remaining") == "0":
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, StatusCode: resp.StatusCode, Kind: domain.ErrRateLimited}
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, StatusCode: resp.StatusCode, Kind: domain.ErrProvider}
	}

	var body randomPhoto
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, Kind: domain.ErrUpstreamFormat, Err: err}
	}
	if body.URLs.Regular == "" {
		return nil, &domain.ProviderError{Provider: providerName, Op: opRandom, Kind: domain.ErrUpstreamFormat, Err: errors.New("photo has no url")}
	}

	description := body.Description
	if description == "" {
		description = body.AltDescription
	}
	return &domain.Photo{
		URL:         body.URLs.Regular,
		Author:      body.User.Name,
		AuthorURL:   body.User.Links.HTML,
		Description: description,
	}, nil
}
