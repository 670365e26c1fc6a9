package google

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

// Static map rendering parameters.
const (
	mapZoom    = "14"
	mapSize    = "600x300"
	mapType    = "terrain"
	markerSpec = "color:red|"
)

// StaticMaps implements ports.StaticMapProvider.
type StaticMaps struct {
	client *Client
}

// NewStaticMaps creates a StaticMaps renderer on top of c.
func NewStaticMaps(c *Client) *StaticMaps {
	return &StaticMaps{client: c}
}

// StaticMap renders a terrain preview with a red marker at center.
func (s *StaticMaps) StaticMap(ctx context.Context, center domain.Coordinate) (*domain.MapImage, error) {
	const op = "staticmap"

	params := mapParams(center)
	body, contentType, err := s.client.get(ctx, op, "/staticmap", params)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, formatError(op, errors.New("unexpected content type "+contentType))
	}
	return &domain.MapImage{ContentType: contentType, Data: body}, nil
}

func mapParams(center domain.Coordinate) url.Values {
	c := coordParam(center)
	params := url.Values{}
	params.Set("center", c)
	params.Set("zoom", mapZoom)
	params.Set("size", mapSize)
	params.Set("maptype", mapType)
	params.Set("markers", markerSpec+c)
	return params
}
