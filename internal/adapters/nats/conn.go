package natsadapter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailmatch/internal/pkg/readiness"
)

// Subjects and streams.
const (
	SubjectSearchCompleted = "trails.search.completed"
	SubjectHeadlines       = "trails.news.headlines"

	streamSearches = "TRAIL_SEARCHES"
)

// Connect dials NATS in the background. The returned connection may not be
// usable yet; gate opens on the first successful connect.
func Connect(url, name string, gate *readiness.Gate) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ConnectHandler(func(*nats.Conn) {
			slog.Info("nats connected", "url", url)
			gate.Open()
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			slog.Info("nats reconnected", "url", url)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	// ConnectHandler only fires for connections established asynchronously.
	if conn.IsConnected() {
		gate.Open()
	}
	return conn, nil
}
