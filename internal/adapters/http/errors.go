package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

// retryAfterSeconds is advertised when an upstream quota is exhausted.
const retryAfterSeconds = 30

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, location_not_found, rate_limited, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// SearchError is returned by trail searches. State tells the client which
// prompt to show; Data is always an empty list so renderers never see stale
// results.
type SearchError struct {
	APIError
	State domain.UserState `json:"state"`
	Data  []TrailView      `json:"data"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(buildError(c, status, code, message))
}

func buildError(c *fiber.Ctx, status int, code, message string) APIError {
	reqID, _ := c.Locals("requestid").(string)
	return APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	}
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// classifyError maps a pipeline error onto an HTTP status, code and message.
func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNoLocation):
		return fiber.StatusBadRequest, "location_required", "enter a location or share your device location"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "location_not_found", "location not found, try a different search"
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return fiber.StatusBadRequest, "invalid_coordinate", err.Error()
	case errors.Is(err, domain.ErrMissingParameter):
		return fiber.StatusBadRequest, "missing_parameter", err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests, "rate_limited", "upstream quota exhausted, please retry shortly"
	case errors.Is(err, domain.ErrUpstreamFormat):
		return fiber.StatusBadGateway, "upstream_format", "unexpected response from places provider"
	case errors.Is(err, domain.ErrProvider):
		return fiber.StatusBadGateway, "provider_error", "places provider request failed"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		return fiber.StatusInternalServerError, "internal_error", "unexpected error"
	}
}

// errFromDomain writes the error response for a non-search operation.
func errFromDomain(c *fiber.Ctx, err error) error {
	status, code, msg := classifyError(err)
	logUnexpected(c, status, err)
	if status == fiber.StatusTooManyRequests {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}
	return newError(c, status, code, msg)
}

// errSearch writes the error response for a trail search.
func errSearch(c *fiber.Ctx, err error) error {
	status, code, msg := classifyError(err)
	logUnexpected(c, status, err)
	if status == fiber.StatusTooManyRequests {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}
	return c.Status(status).JSON(SearchError{
		APIError: buildError(c, status, code, msg),
		State:    domain.StateOf(err),
		Data:     []TrailView{},
	})
}

func logUnexpected(c *fiber.Ctx, status int, err error) {
	if status >= fiber.StatusInternalServerError || status == fiber.StatusTooManyRequests {
		LoggerFromCtx(c.UserContext()).Warn("upstream failure", "status", status, "error", err)
	}
}
