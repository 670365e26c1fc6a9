package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"san francisco", Coordinate{37.7749, -122.4194}, false},
		{"poles and antimeridian", Coordinate{-90, 180}, false},
		{"lat too high", Coordinate{90.0001, 0}, true},
		{"lon too low", Coordinate{0, -180.5}, true},
		{"nan", Coordinate{math.NaN(), 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}

func TestNewSearchQuery_Defaults(t *testing.T) {
	q := NewSearchQuery(Coordinate{Lat: 1, Lon: 2}, 0, "")
	if q.RadiusMeters != 20000 {
		t.Errorf("expected default radius 20000, got %d", q.RadiusMeters)
	}
	if q.Keyword != "trail" {
		t.Errorf("expected default keyword trail, got %q", q.Keyword)
	}
	if q.Origin == nil || q.Origin.Lat != 1 || q.Origin.Lon != 2 {
		t.Errorf("unexpected origin: %+v", q.Origin)
	}

	q = NewSearchQuery(Coordinate{}, 5000, "hike")
	if q.RadiusMeters != 5000 || q.Keyword != "hike" {
		t.Errorf("explicit values overridden: %+v", q)
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("search: %w", &ProviderError{
		Provider: "google", Op: "nearbysearch", Kind: ErrRateLimited, Err: cause,
	})

	if !errors.Is(err, ErrRateLimited) {
		t.Error("expected ErrRateLimited")
	}
	if !errors.Is(err, ErrProvider) {
		t.Error("rate limiting should also match ErrProvider")
	}
	if !errors.Is(err, cause) {
		t.Error("expected underlying cause to be reachable")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Op != "nearbysearch" {
		t.Errorf("errors.As failed: %+v", pe)
	}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		err  error
		want UserState
	}{
		{ErrNotFound, StateLocationNotFound},
		{ErrNoLocation, StateLocationNotFound},
		{ErrMissingParameter, StateLocationNotFound},
		{ErrInvalidCoordinate, StateLocationNotFound},
		{&ProviderError{Kind: ErrUpstreamFormat}, StateRequestFailed},
		{&ProviderError{Kind: ErrProvider}, StateRequestFailed},
		{ErrRateLimited, StateRequestFailed},
		{errors.New("boom"), StateRequestFailed},
	}
	for _, tt := range tests {
		if got := StateOf(tt.err); got != tt.want {
			t.Errorf("StateOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
