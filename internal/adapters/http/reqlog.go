package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type loggerKey struct{}

// RequestLoggerMiddleware puts a logger tagged with the request ID into the
// user context. Handlers and the access log read it back with LoggerFromCtx.
func RequestLoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid != "" {
			c.SetUserContext(WithLogger(c.UserContext(), slog.Default().With("request_id", rid)))
		}
		return c.Next()
	}
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFromCtx returns the request logger, or the default logger when ctx
// carries none.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
