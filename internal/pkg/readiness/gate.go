// Package readiness provides a one-shot signal for capabilities that become
// available asynchronously, such as a broker connection established in the
// background.
package readiness

import (
	"context"
	"sync"
)

// Gate is closed exactly once. Waiters block until it opens or their context ends.
type Gate struct {
	once sync.Once
	ch   chan struct{}
}

// New returns a closed (not yet ready) gate.
func New() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Open marks the capability as ready. Calling it more than once is a no-op.
func (g *Gate) Open() {
	g.once.Do(func() { close(g.ch) })
}

// Ready reports whether Open has been called.
func (g *Gate) Ready() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the gate opens or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
