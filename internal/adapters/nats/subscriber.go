package natsadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber on a shared NATS connection.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber creates a subscriber sharing conn.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribeHeadlines delivers every headline broadcast to handler until the
// returned cancel function is called or ctx ends.
func (s *Subscriber) SubscribeHeadlines(ctx context.Context, handler func(ctx context.Context, headlines []domain.Headline) error) (func(), error) {
	sub, err := s.conn.Subscribe(SubjectHeadlines, func(msg *nats.Msg) {
		var headlines []domain.Headline
		if err := json.Unmarshal(msg.Data, &headlines); err != nil {
			slog.Warn("discarding malformed headline broadcast", "error", err)
			return
		}
		if err := handler(ctx, headlines); err != nil {
			slog.Debug("headline handler failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { _ = sub.Unsubscribe() })
	return func() {
		stop()
		_ = sub.Unsubscribe()
	}, nil
}
