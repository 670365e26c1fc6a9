package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/pkg/readiness"
)

// Publisher implements ports.EventPublisher using NATS. Search events go to
// JetStream; headline broadcasts are fire-and-forget core NATS messages.
type Publisher struct {
	conn *nats.Conn
	gate *readiness.Gate

	mu      sync.Mutex
	js      nats.JetStreamContext
	streams bool
}

// NewPublisher wraps an existing connection. gate must be the one passed to
// Connect.
func NewPublisher(conn *nats.Conn, gate *readiness.Gate) *Publisher {
	return &Publisher{conn: conn, gate: gate}
}

// jetStream waits for the connection and ensures the streams exist.
func (p *Publisher) jetStream(ctx context.Context) (nats.JetStreamContext, error) {
	if err := p.gate.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nats not ready: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streams {
		return p.js, nil
	}

	js, err := p.conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      streamSearches,
		Subjects:  []string{SubjectSearchCompleted + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg, nats.Context(ctx)); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg, nats.Context(ctx)); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	p.js, p.streams = js, true
	return js, nil
}

// PublishSearchCompleted records a finished search on subject
// trails.search.completed.<source>.
func (p *Publisher) PublishSearchCompleted(ctx context.Context, event *domain.SearchEvent) error {
	js, err := p.jetStream(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = js.Publish(SubjectSearchCompleted+"."+event.Source, data, nats.Context(ctx), nats.MsgId(event.ID))
	return err
}

// PublishHeadlines broadcasts the latest headlines to live subscribers.
func (p *Publisher) PublishHeadlines(ctx context.Context, headlines []domain.Headline) error {
	data, err := json.Marshal(headlines)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectHeadlines, data)
}

// Ready reports whether the broker connection has been established.
func (p *Publisher) Ready() bool {
	return p.gate.Ready()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
