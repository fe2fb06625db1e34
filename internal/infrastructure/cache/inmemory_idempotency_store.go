package cache

import (
	"context"
	"sync"
	"time"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps gateway event claims in a map. Single
// process only; deployments with more than one instance share claims
// through the Redis store instead.
type InMemoryIdempotencyStore struct {
	mu     sync.Mutex
	claims map[string]time.Time
}

// NewInMemoryIdempotencyStore creates an empty in-memory store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{claims: make(map[string]time.Time)}
}

// MarkProcessed claims an event ID for ttl. It reports false when a
// live claim already exists. Expired claims are purged on the way in.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, expires := range s.claims {
		if now.After(expires) {
			delete(s.claims, id)
		}
	}

	if _, held := s.claims[eventID]; held {
		return false, nil
	}
	s.claims[eventID] = now.Add(ttl)
	return true, nil
}

// Unmark releases a claim so a redelivery of the event gets processed
func (s *InMemoryIdempotencyStore) Unmark(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, eventID)
	return nil
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
