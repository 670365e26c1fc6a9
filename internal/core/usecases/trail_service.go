package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

const (
	SourceText   = "text"
	SourceDevice = "device"
)

// SearchOptions tunes TrailService. Zero values fall back to the defaults.
type SearchOptions struct {
	DefaultRadius   int
	DefaultKeyword  string
	CallTimeout     time.Duration
	CacheTTLSeconds int
}

// SearchRequest is one user search. Location text takes precedence over the
// device coordinate when both are present.
type SearchRequest struct {
	Location     string             `json:"location,omitempty"`
	Device       *domain.Coordinate `json:"device,omitempty"`
	RadiusMeters int                `json:"radius,omitempty"`
	Keyword      string             `json:"keyword,omitempty"`
}

// SearchResult is the ordered, tagged trail list for one search.
type SearchResult struct {
	Origin domain.Location      `json:"origin"`
	Source string               `json:"source"`
	Query  domain.SearchQuery   `json:"query"`
	Trails []domain.TaggedTrail `json:"trails"`
}

// TrailService orchestrates location resolution, nearby search, ranking and
// tagging.
type TrailService struct {
	geo    *GeoResolver
	places ports.PlacesSearcher
	cache  ports.CacheService
	events ports.EventPublisher
	opts   SearchOptions
}

// NewTrailService creates a new TrailService. cache and events may be nil.
func NewTrailService(geo *GeoResolver, places ports.PlacesSearcher, cache ports.CacheService, events ports.EventPublisher, opts SearchOptions) *TrailService {
	if opts.DefaultRadius <= 0 {
		opts.DefaultRadius = domain.DefaultRadiusMeters
	}
	if opts.DefaultKeyword == "" {
		opts.DefaultKeyword = domain.DefaultKeyword
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.CacheTTLSeconds <= 0 {
		opts.CacheTTLSeconds = 300
	}
	return &TrailService{geo: geo, places: places, cache: cache, events: events, opts: opts}
}

// Search runs the full pipeline for one request. An empty trail list is a
// successful outcome.
func (s *TrailService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	ctx, span := telemetry.Tracer(telemetry.ScopeUsecases).Start(ctx, telemetry.SpanTrailSearch)
	defer span.End()

	var (
		origin    domain.Location
		source    string
		labelDone chan string
	)

	switch {
	case strings.TrimSpace(req.Location) != "":
		loc, err := s.geo.ResolveText(ctx, req.Location)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues(SourceText, outcomeLabel(err)).Inc()
			span.RecordError(err)
			return nil, err
		}
		origin, source = loc, SourceText

	case req.Device != nil:
		if err := req.Device.Validate(); err != nil {
			metrics.SearchesTotal.WithLabelValues(SourceDevice, "invalid").Inc()
			return nil, err
		}
		origin, source = domain.Location{Coordinate: *req.Device}, SourceDevice

		// The label is cosmetic; resolve it alongside the search.
		labelDone = make(chan string, 1)
		go func(c domain.Coordinate) {
			labelDone <- s.geo.ResolveDevice(ctx, c)
		}(*req.Device)

	default:
		metrics.SearchesTotal.WithLabelValues("none", "no_location").Inc()
		return nil, domain.ErrNoLocation
	}

	radius := req.RadiusMeters
	if radius <= 0 {
		radius = s.opts.DefaultRadius
	}
	keyword := req.Keyword
	if keyword == "" {
		keyword = s.opts.DefaultKeyword
	}
	query := domain.NewSearchQuery(origin.Coordinate, radius, keyword)
	span.SetAttributes(
		attribute.String("search.source", source),
		attribute.Int("search.radius_meters", query.RadiusMeters),
		attribute.String("search.keyword", query.Keyword),
	)

	trails, err := s.Nearby(ctx, query)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(source, outcomeLabel(err)).Inc()
		span.RecordError(err)
		return nil, err
	}

	if labelDone != nil {
		origin.DisplayName = <-labelDone
	}

	metrics.SearchesTotal.WithLabelValues(source, "ok").Inc()
	metrics.TrailsReturned.Observe(float64(len(trails)))
	span.SetAttributes(attribute.Int("search.results", len(trails)))

	s.publish(ctx, &domain.SearchEvent{
		ID:           uuid.NewString(),
		Source:       source,
		Origin:       origin.Coordinate,
		RadiusMeters: query.RadiusMeters,
		Keyword:      query.Keyword,
		ResultCount:  len(trails),
		OccurredAt:   time.Now().UTC(),
	})

	return &SearchResult{Origin: origin, Source: source, Query: query, Trails: trails}, nil
}

// Nearby runs retrieval, ranking and tagging for an already-resolved query.
func (s *TrailService) Nearby(ctx context.Context, q domain.SearchQuery) ([]domain.TaggedTrail, error) {
	if q.Origin == nil {
		return nil, fmt.Errorf("%w: origin", domain.ErrMissingParameter)
	}

	cacheKey := fmt.Sprintf("trails:nearby:%.4f:%.4f:%d:%s", q.Origin.Lat, q.Origin.Lon, q.RadiusMeters, strings.ToLower(q.Keyword))
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var trails []domain.TaggedTrail
			if err := json.Unmarshal(data, &trails); err == nil {
				metrics.CacheHits.WithLabelValues("nearby").Inc()
				return trails, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("nearby").Inc()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	candidates, err := s.places.Search(callCtx, q)
	if err != nil {
		return nil, err
	}

	trails := Tag(Rank(*q.Origin, candidates))

	if s.cache != nil {
		if data, err := json.Marshal(trails); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.opts.CacheTTLSeconds)
		}
	}

	return trails, nil
}

// publish emits the search event without holding up the caller.
func (s *TrailService) publish(ctx context.Context, event *domain.SearchEvent) {
	if s.events == nil {
		return
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := s.events.PublishSearchCompleted(pubCtx, event); err != nil {
			slog.Warn("publish search event", "event_id", event.ID, "error", err)
		}
	}()
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, domain.ErrUpstreamFormat):
		return "upstream_format"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrProvider):
		return "provider_error"
	default:
		return "error"
	}
}
