package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
)

const routeTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestLoggerMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP. Every search costs
	// upstream quota, so this also protects the Google key.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics" || c.Path() == "/v1/health"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Legacy routes carry deprecation headers
	app.Use(DeprecationMiddleware(legacyRoutes))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/trails", timeout.NewWithContext(TrailsHandler(deps), routeTimeout))
	v1.Get("/geocode", timeout.NewWithContext(GeocodeHandler(deps), routeTimeout))
	v1.Get("/geocode/reverse", timeout.NewWithContext(ReverseGeocodeHandler(deps), routeTimeout))
	v1.Get("/places/autocomplete", timeout.NewWithContext(AutocompleteHandler(deps), routeTimeout))
	v1.Get("/staticmap", timeout.NewWithContext(StaticMapHandler(deps), routeTimeout))
	v1.Get("/backdrop", timeout.NewWithContext(BackdropHandler(deps), routeTimeout))
	v1.Get("/news", timeout.NewWithContext(NewsHandler(deps), routeTimeout))

	// Pre-v1 routes
	api := app.Group("/api")
	api.Get("/trails", timeout.NewWithContext(LegacyTrailsHandler(deps), routeTimeout))
	api.Get("/news", timeout.NewWithContext(LegacyNewsHandler(deps), routeTimeout))

	// Crawlers
	app.Get("/robots.txt", RobotsHandler(deps.SiteURL))
	app.Get("/sitemap.xml", SitemapHandler(deps.SiteURL))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.DocsPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
