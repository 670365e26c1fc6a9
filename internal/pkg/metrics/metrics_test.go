package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func scrape(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestHandler_ServesRouteMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/v1/trails", func(c *fiber.Ctx) error { return c.SendString("[]") })

	if _, err := app.Test(httptest.NewRequest("GET", "/v1/trails", nil)); err != nil {
		t.Fatal(err)
	}

	out := scrape(t, app)
	if !strings.Contains(out, `trailmatch_http_requests_total{method="GET",path="/v1/trails",status="200"}`) {
		t.Errorf("expected route counter in /metrics output")
	}
}

func TestObserveProvider(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", Handler())

	ObserveProvider("google", "nearbysearch", "rate_limited", time.Now())

	out := scrape(t, app)
	if !strings.Contains(out, `trailmatch_provider_requests_total{operation="nearbysearch",outcome="rate_limited",provider="google"}`) {
		t.Errorf("expected provider counter in /metrics output")
	}
	if !strings.Contains(out, `trailmatch_provider_request_duration_seconds_count{operation="nearbysearch",provider="google"}`) {
		t.Errorf("expected provider latency histogram in /metrics output")
	}
}
