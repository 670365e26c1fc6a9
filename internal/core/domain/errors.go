package domain

import (
	"errors"
	"fmt"
)

// Error kinds produced by the trail discovery pipeline.
var (
	// ErrNotFound: geocoding yielded no match.
	ErrNotFound = errors.New("location not found")
	// ErrMissingParameter: a required coordinate was absent.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrUpstreamFormat: a provider response had an unexpected shape.
	ErrUpstreamFormat = errors.New("unexpected upstream response")
	// ErrProvider: transport or HTTP-level failure talking to a provider.
	ErrProvider = errors.New("provider request failed")
	// ErrNoLocation: neither location text nor a device coordinate was supplied.
	ErrNoLocation = errors.New("no location available")
	// ErrInvalidCoordinate: latitude or longitude outside the valid range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrRateLimited is a provider failure caused by quota exhaustion.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrProvider)
)

// ProviderError describes a failed call to an external provider.
type ProviderError struct {
	Provider   string // "google", "unsplash", "rss"
	Op         string // "geocode", "nearbysearch", ...
	StatusCode int    // HTTP status, 0 when the request never completed
	Status     string // provider-level status (e.g. OVER_QUERY_LIMIT)
	Kind       error  // one of the Err* kinds above
	Err        error  // underlying cause, may be nil
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Kind)
	if e.Status != "" {
		msg += " (" + e.Status + ")"
	} else if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserState is the re-promptable state a failed search resolves to.
type UserState string

const (
	// StateLocationNotFound prompts the user to re-enter a location.
	StateLocationNotFound UserState = "location_not_found"
	// StateRequestFailed prompts the user to retry.
	StateRequestFailed UserState = "request_failed"
)

// StateOf maps any pipeline error onto one of the two user-visible states.
func StateOf(err error) UserState {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoLocation),
		errors.Is(err, ErrMissingParameter), errors.Is(err, ErrInvalidCoordinate):
		return StateLocationNotFound
	default:
		return StateRequestFailed
	}
}
