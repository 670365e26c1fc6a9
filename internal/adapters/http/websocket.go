package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
)

const channelNews = "news"

// wsMessage is sent from client to run searches and manage subscriptions.
type wsMessage struct {
	Action   string   `json:"action"`  // "search" | "subscribe" | "unsubscribe"
	Channel  string   `json:"channel"` // "news"
	Location string   `json:"location"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Radius   int      `json:"radius"`
	Keyword  string   `json:"keyword"`
}

// wsEvent is sent from server to client.
type wsEvent struct {
	Type    string           `json:"type"` // "accepted" | "results" | "error" | "headlines" | "status"
	Ticket  uint64           `json:"ticket,omitempty"`
	Origin  *OriginView      `json:"origin,omitempty"`
	Data    interface{}      `json:"data,omitempty"`
	State   domain.UserState `json:"state,omitempty"`
	Code    string           `json:"code,omitempty"`
	Message string           `json:"message,omitempty"`
	Channel string           `json:"channel,omitempty"`
}

// WebSocketHandler returns a handler that runs live trail searches and relays
// news broadcasts. Each connection owns one SearchSession: a search that is
// superseded by a newer one is cancelled and its result never written.
//
// Clients send JSON such as {"action":"search","location":"Boulder, CO"},
// {"action":"search","lat":40.01,"lon":-105.27} or
// {"action":"subscribe","channel":"news"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		id := uuid.NewString()
		logger := slog.Default().With("ws_session", id, "remote", c.RemoteAddr().String())
		logger.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		session := usecases.NewSearchSession(deps.Trails, func(d usecases.Delivery) {
			_ = writeJSON(searchEvent(d))
		})
		defer session.Close()

		var unsubscribeNews func()
		defer func() {
			if unsubscribeNews != nil {
				unsubscribeNews()
			}
		}()

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(wsEvent{Type: "error", Code: "bad_request", Message: "invalid JSON"})
				continue
			}

			switch m.Action {
			case "search":
				req, err := m.searchRequest()
				if err != nil {
					_ = writeJSON(wsEvent{Type: "error", Code: "bad_request", Message: err.Error()})
					continue
				}
				ticket := session.Submit(ctx, req)
				_ = writeJSON(wsEvent{Type: "accepted", Ticket: ticket})

			case "subscribe":
				if m.Channel != channelNews {
					_ = writeJSON(wsEvent{Type: "error", Code: "bad_request", Message: "unknown channel: " + m.Channel})
					continue
				}
				if deps.Events == nil {
					_ = writeJSON(wsEvent{Type: "error", Code: "unavailable", Message: "live news is not enabled"})
					continue
				}
				if unsubscribeNews != nil {
					_ = writeJSON(wsEvent{Type: "status", Channel: channelNews, Message: "already subscribed"})
					continue
				}
				unsubscribeNews, err = deps.Events.SubscribeHeadlines(ctx, func(_ context.Context, headlines []domain.Headline) error {
					return writeJSON(wsEvent{Type: "headlines", Channel: channelNews, Data: headlines})
				})
				if err != nil {
					unsubscribeNews = nil
					logger.Warn("news subscribe failed", "error", err)
					_ = writeJSON(wsEvent{Type: "error", Code: "unavailable", Message: "subscribe failed"})
					continue
				}
				_ = writeJSON(wsEvent{Type: "status", Channel: channelNews, Message: "subscribed"})

			case "unsubscribe":
				if unsubscribeNews == nil {
					_ = writeJSON(wsEvent{Type: "error", Code: "bad_request", Message: "not subscribed to " + m.Channel})
					continue
				}
				unsubscribeNews()
				unsubscribeNews = nil
				_ = writeJSON(wsEvent{Type: "status", Channel: channelNews, Message: "unsubscribed"})

			default:
				_ = writeJSON(wsEvent{Type: "error", Code: "bad_request", Message: "unknown action: " + m.Action})
			}
		}

		logger.Info("ws client disconnected")
	}
}

func (m wsMessage) searchRequest() (usecases.SearchRequest, error) {
	req := usecases.SearchRequest{Location: m.Location, Keyword: m.Keyword}
	if m.Radius < 0 || m.Radius > maxRadiusMeters {
		return req, errRadius
	}
	req.RadiusMeters = m.Radius
	if m.Lat != nil && m.Lon != nil {
		req.Device = &domain.Coordinate{Lat: *m.Lat, Lon: *m.Lon}
	}
	return req, nil
}

func searchEvent(d usecases.Delivery) wsEvent {
	if d.Err != nil {
		_, code, msg := classifyError(d.Err)
		return wsEvent{
			Type:    "error",
			Ticket:  d.Ticket,
			State:   domain.StateOf(d.Err),
			Code:    code,
			Message: msg,
			Data:    []TrailView{},
		}
	}
	origin := toOriginView(d.Result)
	return wsEvent{
		Type:   "results",
		Ticket: d.Ticket,
		Origin: &origin,
		Data:   toTrailViews(d.Result.Trails),
	}
}
