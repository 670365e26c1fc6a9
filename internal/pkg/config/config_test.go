package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsWithKeyFromEnv(t *testing.T) {
	t.Setenv("TRAILMATCH_GOOGLE_API_KEY", "test-key")
	t.Setenv("TRAILMATCH_SERVER_PORT", "9090")

	cfg, err := Load("trailmatch-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Google.APIKey != "test-key" {
		t.Errorf("expected api key from env, got %q", cfg.Google.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Search.DefaultRadius != 20000 {
		t.Errorf("expected default radius 20000, got %d", cfg.Search.DefaultRadius)
	}
	if cfg.Search.DefaultKeyword != "trail" {
		t.Errorf("expected default keyword trail, got %q", cfg.Search.DefaultKeyword)
	}
	if cfg.Search.CallTimeout() != 10*time.Second {
		t.Errorf("expected 10s call timeout, got %s", cfg.Search.CallTimeout())
	}
	if cfg.Telemetry.ServiceName != "trailmatch-test" {
		t.Errorf("expected service name default, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("TRAILMATCH_GOOGLE_API_KEY", "")

	_, err := Load("trailmatch-test")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "google.api_key is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{"server.port", "google.api_key", "news.feed_url", "search.default_radius"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got: %v", want, err)
		}
	}
}

func TestLoad_WithoutGoogle(t *testing.T) {
	t.Setenv("TRAILMATCH_GOOGLE_API_KEY", "")

	cfg, err := Load("trailmatch-newsworker", WithoutGoogle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.News.PollInterval() != 15*time.Minute {
		t.Errorf("expected 15m poll interval, got %s", cfg.News.PollInterval())
	}
}
