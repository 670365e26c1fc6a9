package rss

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Outside</title>
  <item>
    <title>The Best Fall Hikes</title>
    <link>https://example.com/fall-hikes</link>
    <pubDate>Mon, 06 Oct 2025 14:00:00 +0000</pubDate>
    <description><![CDATA[<p><img src="https://img.example.com/larch.jpg"/>Larches are <b>turning</b>.</p>]]></description>
  </item>
  <item>
    <title>Gear Review: Trail Runners</title>
    <link>https://example.com/shoes</link>
    <pubDate>Sun, 05 Oct 2025 09:30:00 +0000</pubDate>
  </item>
  <item>
    <title>Third Story</title>
    <link>https://example.com/third</link>
  </item>
</channel>
</rss>`

func serveFeed(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestFeed_Latest(t *testing.T) {
	feed := New(serveFeed(t, http.StatusOK, sampleFeed), nil)

	got, err := feed.Latest(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(got))
	}

	first := got[0]
	if first.Title != "The Best Fall Hikes" || first.Link != "https://example.com/fall-hikes" {
		t.Errorf("unexpected first headline: %+v", first)
	}
	if first.Date != "Mon, 06 Oct 2025 14:00:00 +0000" {
		t.Errorf("expected raw pubDate, got %q", first.Date)
	}
	if first.PublishedAt == nil || first.PublishedAt.Day() != 6 {
		t.Errorf("expected parsed date, got %v", first.PublishedAt)
	}
	if first.Summary != "Larches are turning." {
		t.Errorf("unexpected summary: %q", first.Summary)
	}
	if first.Image != "https://img.example.com/larch.jpg" {
		t.Errorf("unexpected image: %q", first.Image)
	}
	if got[1].Summary != "" {
		t.Errorf("expected empty summary, got %q", got[1].Summary)
	}
}

func TestFeed_Latest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusBadGateway, "", domain.ErrProvider},
		{"throttled", http.StatusTooManyRequests, "", domain.ErrRateLimited},
		{"not a feed", http.StatusOK, "plain text, not a feed", domain.ErrUpstreamFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := New(serveFeed(t, tt.status, tt.body), nil)
			_, err := feed.Latest(context.Background(), 5)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd…" {
		t.Errorf("unexpected %q", got)
	}
}
