package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	natsadapter "github.com/samirrijal/trailmatch/internal/adapters/nats"
	"github.com/samirrijal/trailmatch/internal/adapters/rss"
	"github.com/samirrijal/trailmatch/internal/adapters/valkey"
	"github.com/samirrijal/trailmatch/internal/core/ports"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
	"github.com/samirrijal/trailmatch/internal/pkg/config"
	"github.com/samirrijal/trailmatch/internal/pkg/logging"
	"github.com/samirrijal/trailmatch/internal/pkg/readiness"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

// newsworker polls the outdoor news feed, refreshes the shared headline
// cache and pushes each batch to live clients over NATS.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("trailmatch-newsworker", config.WithoutGoogle())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, headlines will not be shared", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	var events ports.EventPublisher
	gate := readiness.New()
	nc, err := natsadapter.Connect(cfg.NATS.URL, "trailmatch-newsworker", gate)
	if err != nil {
		slog.Warn("nats unavailable, live push disabled", "error", err)
	} else {
		pub := natsadapter.NewPublisher(nc, gate)
		defer pub.Close()
		events = pub
	}

	client := &http.Client{Timeout: 30 * time.Second}
	news := usecases.NewNewsService(
		rss.New(cfg.News.FeedURL, client),
		cache,
		events,
		cfg.News.Limit,
		cfg.News.CacheTTLSeconds,
		cfg.Search.CallTimeout(),
	)

	interval := cfg.News.PollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("news worker started", "feed", cfg.News.FeedURL, "interval", interval.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run once immediately
	poll(ctx, news)

	for {
		select {
		case <-ticker.C:
			poll(ctx, news)
		case <-ctx.Done():
			return
		case sig := <-quit:
			slog.Info("shutting down news worker", "signal", sig.String())
			cancel()
			return
		}
	}
}

func poll(ctx context.Context, news *usecases.NewsService) {
	start := time.Now()
	headlines, err := news.Refresh(ctx)
	if err != nil {
		slog.Warn("news refresh failed", "error", err, "took", time.Since(start).String())
		return
	}
	slog.Info("news refreshed", "headlines", len(headlines), "took", time.Since(start).String())
}
