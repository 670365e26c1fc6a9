// Package google implements the geocoding, places, autocomplete and static
// map ports against the Google Maps Platform web services.
package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

const (
	providerName    = "google"
	DefaultBaseURL  = "https://maps.googleapis.com/maps/api"
	maxResponseSize = 4 << 20
)

// Provider-level statuses carried in every JSON response envelope.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusExhausted      = "RESOURCE_EXHAUSTED"
)

// Client is a rate-limited HTTP client shared by all Google adapters.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL points the client at a different API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRateLimit caps outbound requests at qps with the given burst.
func WithRateLimit(qps float64, burst int) Option {
	return func(c *Client) {
		if qps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(qps), burst)
		}
	}
}

// NewClient creates a Client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// get performs one GET against path and returns the raw body. It maps
// transport and HTTP failures onto domain error kinds and records metrics.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) (body []byte, contentType string, err error) {
	ctx, span := telemetry.Tracer(telemetry.ScopeProviders).Start(ctx, "google."+op)
	started := time.Now()
	defer func() {
		metrics.ObserveProvider(providerName, op, outcome(err), started)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		// A caller that gave up is not a quota problem.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", &domain.ProviderError{Provider: providerName, Op: op, Kind: domain.ErrProvider, Err: ctxErr}
		}
		return nil, "", &domain.ProviderError{Provider: providerName, Op: op, Kind: domain.ErrRateLimited, Err: err}
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", &domain.ProviderError{Provider: providerName, Op: op, Kind: domain.ErrProvider, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &domain.ProviderError{Provider: providerName, Op: op, Kind: domain.ErrProvider, Err: redact(err)}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, "", &domain.ProviderError{Provider: providerName, Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrRateLimited}
	case resp.StatusCode != http.StatusOK:
		return nil, "", &domain.ProviderError{Provider: providerName, Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrProvider}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, "", &domain.ProviderError{Provider: providerName, Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrProvider, Err: err}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// checkStatus maps a provider-level status onto a domain error. OK and
// ZERO_RESULTS are both successes.
func checkStatus(op, status, message string) error {
	switch status {
	case statusOK, statusZeroResults:
		return nil
	case statusOverQueryLimit, statusExhausted:
		return &domain.ProviderError{Provider: providerName, Op: op, Status: status, Kind: domain.ErrRateLimited, Err: messageErr(message)}
	default:
		return &domain.ProviderError{Provider: providerName, Op: op, Status: status, Kind: domain.ErrProvider, Err: messageErr(message)}
	}
}

func formatError(op string, err error) error {
	return &domain.ProviderError{Provider: providerName, Op: op, Kind: domain.ErrUpstreamFormat, Err: err}
}

func messageErr(message string) error {
	if message == "" {
		return nil
	}
	return errors.New(message)
}

// redact strips the query string, and with it the API key, from URL errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
		}
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrUpstreamFormat):
		return "upstream_format"
	default:
		return "error"
	}
}

func coordParam(c domain.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}
