package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailmatch",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailmatch",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Upstream provider metrics (google, unsplash, rss)
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Outbound provider requests by outcome",
	}, []string{"provider", "operation", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailmatch",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Outbound provider request latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider", "operation"})

	// Search pipeline metrics
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "search",
		Name:      "requests_total",
		Help:      "Trail searches by source and outcome",
	}, []string{"source", "outcome"})

	TrailsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trailmatch",
		Subsystem: "search",
		Name:      "trails_returned",
		Help:      "Number of trails returned per successful search",
		Buckets:   []float64{0, 1, 5, 10, 20, 40, 60},
	})

	StaleResponsesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "search",
		Name:      "stale_responses_dropped_total",
		Help:      "Search results discarded because a newer search superseded them",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trailmatch",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	NewsPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmatch",
		Subsystem: "news",
		Name:      "polls_total",
		Help:      "News feed polls by outcome",
	}, []string{"outcome"})
)

// ObserveProvider records one outbound call. outcome is "ok" or an error code.
func ObserveProvider(provider, operation, outcome string, started time.Time) {
	ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
	ProviderLatency.WithLabelValues(provider, operation).Observe(time.Since(started).Seconds())
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
