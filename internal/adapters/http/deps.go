package http

import (
	"context"

	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
)

// Pinger is implemented by backing stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyChecker is implemented by components that connect in the background.
type ReadyChecker interface {
	Ready() bool
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trails *usecases.TrailService
	Geo    *usecases.GeoResolver
	Places *usecases.PlaceService
	News   *usecases.NewsService

	// Events feeds live headlines to WebSocket clients. Nil disables the
	// news channel.
	Events ports.EventSubscriber

	Cache  Pinger
	Broker ReadyChecker

	GoogleConfigured bool
	SiteURL          string
	DocsPath         string // defaults to api/openapi.yaml
}
