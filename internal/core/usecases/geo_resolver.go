package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

const (
	geocodeCacheTTL = 86400 // 24h, place coordinates rarely move
	reverseCacheTTL = 3600
)

// GeoResolver turns free text or a device coordinate into a location.
type GeoResolver struct {
	provider    ports.GeocodingProvider
	cache       ports.CacheService
	callTimeout time.Duration
	group       singleflight.Group
}

// NewGeoResolver creates a new GeoResolver. cache may be nil.
func NewGeoResolver(provider ports.GeocodingProvider, cache ports.CacheService, callTimeout time.Duration) *GeoResolver {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &GeoResolver{provider: provider, cache: cache, callTimeout: callTimeout}
}

// ResolveText geocodes a free-text location and returns the best-ranked match.
// It fails with domain.ErrNotFound when the provider has no match.
func (r *GeoResolver) ResolveText(ctx context.Context, query string) (domain.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Location{}, fmt.Errorf("%w: location text", domain.ErrMissingParameter)
	}

	ctx, span := telemetry.Tracer(telemetry.ScopeUsecases).Start(ctx, telemetry.SpanResolveText)
	defer span.End()
	span.SetAttributes(attribute.String("geocode.query", query))

	cacheKey := "geocode:text:" + strings.ToLower(query)
	if loc, ok := r.cachedLocation(ctx, cacheKey); ok {
		return loc, nil
	}

	// Callers with the same query share one provider call. The call outlives
	// any single caller so cancelling one never fails the others.
	ch := r.group.DoChan(cacheKey, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.callTimeout)
		defer cancel()

		results, err := r.provider.Geocode(callCtx, query)
		if err != nil {
			return domain.Location{}, err
		}
		if len(results) == 0 {
			return domain.Location{}, fmt.Errorf("%w: %q", domain.ErrNotFound, query)
		}

		best := results[0]
		return domain.Location{Coordinate: best.Location, DisplayName: best.FormattedAddress}, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return domain.Location{}, ctx.Err()
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		return domain.Location{}, res.Err
	}

	loc := res.Val.(domain.Location)
	if r.cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			_ = r.cache.Set(ctx, cacheKey, data, geocodeCacheTTL)
		}
	}
	return loc, nil
}

// ResolveDevice reverse-geocodes a device coordinate into a short display
// name. The label is cosmetic: provider failures are logged and yield "".
func (r *GeoResolver) ResolveDevice(ctx context.Context, c domain.Coordinate) string {
	if err := c.Validate(); err != nil {
		return ""
	}

	ctx, span := telemetry.Tracer(telemetry.ScopeUsecases).Start(ctx, telemetry.SpanResolveDevice)
	defer span.End()

	cacheKey := fmt.Sprintf("geocode:reverse:%.4f:%.4f", c.Lat, c.Lon)
	if r.cache != nil {
		if data, err := r.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("reverse_geocode").Inc()
			return string(data)
		}
		metrics.CacheMisses.WithLabelValues("reverse_geocode").Inc()
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	results, err := r.provider.ReverseGeocode(callCtx, c)
	if err != nil {
		slog.WarnContext(ctx, "reverse geocode failed", "coordinate", c.String(), "error", err)
		return ""
	}

	name := DisplayName(results)
	if name != "" && r.cache != nil {
		_ = r.cache.Set(ctx, cacheKey, []byte(name), reverseCacheTTL)
	}
	return name
}

// DisplayName picks the first locality or sub-locality component of the best
// result, falling back to its formatted address.
func DisplayName(results []domain.GeocodeResult) string {
	if len(results) == 0 {
		return ""
	}
	best := results[0]
	for _, comp := range best.Components {
		for _, t := range comp.Types {
			if t == "locality" || strings.HasPrefix(t, "sublocality") {
				return comp.LongName
			}
		}
	}
	return best.FormattedAddress
}

func (r *GeoResolver) cachedLocation(ctx context.Context, key string) (domain.Location, bool) {
	if r.cache == nil {
		return domain.Location{}, false
	}
	data, err := r.cache.Get(ctx, key)
	if err == nil {
		var loc domain.Location
		if err := json.Unmarshal(data, &loc); err == nil {
			metrics.CacheHits.WithLabelValues("geocode").Inc()
			return loc, true
		}
	}
	metrics.CacheMisses.WithLabelValues("geocode").Inc()
	return domain.Location{}, false
}
