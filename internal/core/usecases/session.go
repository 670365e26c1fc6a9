package usecases

import (
	"context"
	"sync"

	"github.com/samirrijal/trailmatch/internal/pkg/metrics"
)

// Searcher runs one trail search.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

// Delivery is the outcome of one submitted search.
type Delivery struct {
	Ticket uint64
	Result *SearchResult
	Err    error
}

// SearchSession serialises the results of overlapping searches from one
// client. Every Submit supersedes the previous one: its context is cancelled
// and, should it still complete, its result is dropped instead of delivered.
type SearchSession struct {
	searcher Searcher
	deliver  func(Delivery)

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSearchSession creates a session that hands current results to deliver.
// deliver is never called concurrently with itself.
func NewSearchSession(searcher Searcher, deliver func(Delivery)) *SearchSession {
	return &SearchSession{searcher: searcher, deliver: deliver}
}

// Submit starts a search in the background and returns its ticket.
func (s *SearchSession) Submit(ctx context.Context, req SearchRequest) uint64 {
	s.mu.Lock()
	s.latest++
	ticket := s.latest
	if s.cancel != nil {
		s.cancel()
	}
	searchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		result, err := s.searcher.Search(searchCtx, req)

		s.mu.Lock()
		defer s.mu.Unlock()
		if ticket != s.latest {
			metrics.StaleResponsesDropped.Inc()
			return
		}
		s.deliver(Delivery{Ticket: ticket, Result: result, Err: err})
	}()

	return ticket
}

// Current returns the ticket of the most recently submitted search.
func (s *SearchSession) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close cancels any in-flight search, suppresses its delivery and waits for
// background work to finish.
func (s *SearchSession) Close() {
	s.mu.Lock()
	s.latest++
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
