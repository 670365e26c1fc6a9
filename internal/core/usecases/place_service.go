package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
)

const staticMapCacheTTL = 86400

// PlaceService covers the auxiliary place lookups around a search: typing
// suggestions, map previews and background photos.
type PlaceService struct {
	completer   ports.PlaceAutocompleter
	maps        ports.StaticMapProvider
	photos      ports.PhotoProvider
	cache       ports.CacheService
	fallbackURL string
	callTimeout time.Duration
}

// NewPlaceService creates a new PlaceService. photos and cache may be nil.
func NewPlaceService(completer ports.PlaceAutocompleter, maps ports.StaticMapProvider, photos ports.PhotoProvider, cache ports.CacheService, fallbackPhotoURL string, callTimeout time.Duration) *PlaceService {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &PlaceService{
		completer:   completer,
		maps:        maps,
		photos:      photos,
		cache:       cache,
		fallbackURL: fallbackPhotoURL,
		callTimeout: callTimeout,
	}
}

// Suggest returns autocomplete predictions for partially typed input.
func (s *PlaceService) Suggest(ctx context.Context, input string) ([]domain.Suggestion, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []domain.Suggestion{}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.completer.Autocomplete(callCtx, input)
}

// MapPreview returns a static map image centred on c.
func (s *PlaceService) MapPreview(ctx context.Context, c domain.Coordinate) (*domain.MapImage, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("staticmap:%.5f:%.5f", c.Lat, c.Lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var img domain.MapImage
			if err := json.Unmarshal(data, &img); err == nil && len(img.Data) > 0 {
				metrics.CacheHits.WithLabelValues("staticmap").Inc()
				return &img, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("staticmap").Inc()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	img, err := s.maps.StaticMap(callCtx, c)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(img); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, staticMapCacheTTL)
		}
	}
	return img, nil
}

// Backdrop returns a background photo for query. It never fails: any
// provider problem yields the configured fallback image.
func (s *PlaceService) Backdrop(ctx context.Context, query string) *domain.Photo {
	fallback := &domain.Photo{URL: s.fallbackURL, FromFallback: true}
	if s.photos == nil {
		return fallback
	}
	if query = strings.TrimSpace(query); query == "" {
		query = "hiking trail"
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	photo, err := s.photos.RandomPhoto(callCtx, query)
	if err != nil || photo == nil || photo.URL == "" {
		if err != nil {
			slog.WarnContext(ctx, "backdrop photo unavailable", "query", query, "error", err)
		}
		return fallback
	}
	return photo
}
