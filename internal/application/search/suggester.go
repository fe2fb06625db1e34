package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long a query must sit unchanged before it is
// resolved.
const DefaultDebounce = 300 * time.Millisecond

// SuggestProvider resolves a query into a suggestion panel
type SuggestProvider interface {
	Suggest(ctx context.Context, query string) (*SuggestionsResponse, error)
}

// Result is one resolved suggestion panel delivered by a Suggester
type Result struct {
	Query       string
	Suggestions *SuggestionsResponse
	Err         error
}

// Suggester debounces a stream of query updates for one connection.
// Each Update advances a generation counter; a lookup only delivers its
// result if its generation is still current when it finishes, so a slow
// lookup for an old query can never overwrite a newer one.
type Suggester struct {
	provider SuggestProvider
	delay    time.Duration
	results  chan Result

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	closed bool
}

// NewSuggester creates a Suggester with the default debounce window
func NewSuggester(provider SuggestProvider) *Suggester {
	return NewSuggesterWithDelay(provider, DefaultDebounce)
}

// NewSuggesterWithDelay creates a Suggester with a custom debounce window
func NewSuggesterWithDelay(provider SuggestProvider, delay time.Duration) *Suggester {
	ctx, cancel := context.WithCancel(context.Background())
	return &Suggester{
		provider: provider,
		delay:    delay,
		results:  make(chan Result, 8),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Update records a keystroke. The pending lookup, if any, is rescheduled;
// only a query that survives the full debounce window is resolved.
func (s *Suggester) Update(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.resolve(gen, query)
	})
}

// Results delivers resolved panels, one per settled query
func (s *Suggester) Results() <-chan Result {
	return s.results
}

// Close stops the pending lookup and closes the result channel
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.cancel()
	close(s.results)
}

func (s *Suggester) resolve(gen uint64, query string) {
	resp, err := s.provider.Suggest(s.ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		// a newer query arrived while this one was in flight
		return
	}
	select {
	case s.results <- Result{Query: query, Suggestions: resp, Err: err}:
	default:
		// consumer stalled; dropping is fine, the next settled query resends
	}
}
