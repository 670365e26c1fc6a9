package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/samirrijal/trailmatch/internal/adapters/google"
	"github.com/samirrijal/trailmatch/internal/adapters/http"
	natsadapter "github.com/samirrijal/trailmatch/internal/adapters/nats"
	"github.com/samirrijal/trailmatch/internal/adapters/rss"
	"github.com/samirrijal/trailmatch/internal/adapters/unsplash"
	"github.com/samirrijal/trailmatch/internal/adapters/valkey"
	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
	"github.com/samirrijal/trailmatch/internal/pkg/config"
	"github.com/samirrijal/trailmatch/internal/pkg/logging"
	"github.com/samirrijal/trailmatch/internal/pkg/readiness"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load("trailmatch-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{
		SiteURL: cfg.Site.BaseURL,
	}

	// Cache (optional)
	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		defer vc.Close()
		cache = vc
		deps.Cache = vc
	}

	// NATS connects in the background; publishers wait on the gate.
	var events ports.EventPublisher
	gate := readiness.New()
	nc, err := natsadapter.Connect(cfg.NATS.URL, "trailmatch-api", gate)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		pub := natsadapter.NewPublisher(nc, gate)
		defer pub.Close()
		events = pub
		deps.Broker = pub
		deps.Events = natsadapter.NewSubscriber(nc)
	}

	// Providers
	httpClient := &nethttp.Client{Timeout: cfg.Search.CallTimeout()}
	gc := google.NewClient(cfg.Google.APIKey,
		google.WithHTTPClient(httpClient),
		google.WithBaseURL(cfg.Google.BaseURL),
		google.WithRateLimit(cfg.Google.QPS, cfg.Google.Burst),
	)
	deps.GoogleConfigured = gc.HasKey()

	var photos ports.PhotoProvider
	if cfg.Unsplash.AccessKey != "" {
		photos = unsplash.New(cfg.Unsplash.BaseURL, cfg.Unsplash.AccessKey, httpClient)
	} else {
		slog.Info("unsplash access key not set, backdrops use the fallback photo")
	}

	// Use cases
	geo := usecases.NewGeoResolver(google.NewGeocoder(gc), cache, cfg.Search.CallTimeout())
	deps.Geo = geo
	deps.Trails = usecases.NewTrailService(geo, google.NewPlaces(gc), cache, events, usecases.SearchOptions{
		DefaultRadius:   cfg.Search.DefaultRadius,
		DefaultKeyword:  cfg.Search.DefaultKeyword,
		CallTimeout:     cfg.Search.CallTimeout(),
		CacheTTLSeconds: cfg.Search.CacheTTLSeconds,
	})
	deps.Places = usecases.NewPlaceService(
		google.NewAutocompleter(gc),
		google.NewStaticMaps(gc),
		photos,
		cache,
		cfg.Unsplash.FallbackURL,
		cfg.Search.CallTimeout(),
	)
	deps.News = usecases.NewNewsService(
		rss.New(cfg.News.FeedURL, httpClient),
		cache,
		events,
		cfg.News.Limit,
		cfg.News.CacheTTLSeconds,
		cfg.Search.CallTimeout(),
	)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "TrailMatch API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, " + cfg.Site.BaseURL,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
