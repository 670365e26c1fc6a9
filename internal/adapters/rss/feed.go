// Package rss implements ports.NewsSource on top of an RSS or Atom feed.
package rss

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
	"github.com/samirrijal/trailmatch/internal/pkg/telemetry"
)

const (
	providerName = "rss"
	opFeed       = "feed"
	summaryLimit = 280
)

// Feed reads headlines from a single feed URL.
type Feed struct {
	url    string
	parser *gofeed.Parser
}

// New creates a Feed for url.
func New(url string, client *http.Client) *Feed {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	p := gofeed.NewParser()
	p.Client = client
	p.UserAgent = "trailmatch-news/1.0"
	return &Feed{url: url, parser: p}
}

// Latest returns up to limit items in feed order.
func (f *Feed) Latest(ctx context.Context, limit int) (headlines []domain.Headline, err error) {
	ctx, span := telemetry.Tracer(telemetry.ScopeProviders).Start(ctx, "rss.feed")
	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
		}
		metrics.ObserveProvider(providerName, opFeed, outcome, started)
		span.End()
	}()

	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, classify(err)
	}

	if limit <= 0 {
		limit = len(feed.Items)
	}
	headlines = make([]domain.Headline, 0, min(limit, len(feed.Items)))
	for _, item := range feed.Items {
		if len(headlines) == limit {
			break
		}
		if item == nil || item.Title == "" {
			continue
		}
		headlines = append(headlines, toHeadline(item))
	}
	return headlines, nil
}

func toHeadline(item *gofeed.Item) domain.Headline {
	h := domain.Headline{
		Title:       strings.TrimSpace(item.Title),
		Link:        item.Link,
		Date:        item.Published,
		PublishedAt: item.PublishedParsed,
	}
	if item.Image != nil {
		h.Image = item.Image.URL
	}

	if item.Description == "" {
		return h
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Description))
	if err != nil {
		return h
	}
	h.Summary = truncate(strings.Join(strings.Fields(doc.Text()), " "), summaryLimit)
	if h.Image == "" {
		if src, ok := doc.Find("img").First().Attr("src"); ok {
			h.Image = src
		}
	}
	return h
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func classify(err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		kind := domain.ErrProvider
		if httpErr.StatusCode == http.StatusTooManyRequests {
			kind = domain.ErrRateLimited
		}
		return &domain.ProviderError{Provider: providerName, Op: opFeed, StatusCode: httpErr.StatusCode, Kind: kind}
	}
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		return &domain.ProviderError{Provider: providerName, Op: opFeed, Kind: domain.ErrUpstreamFormat, Err: err}
	}
	return &domain.ProviderError{Provider: providerName, Op: opFeed, Kind: domain.ErrProvider, Err: err}
}
