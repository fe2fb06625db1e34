package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/luxemart/storefront/internal/domain/cart"
)

const (
	recentKeyPrefix  = "prefs:recent:"
	greetedKeyPrefix = "prefs:greeted:"

	// maxRecentCategories bounds the recency list per user
	maxRecentCategories = 10

	// recentTTL expires a user's browsing trail after inactivity
	recentTTL = 30 * 24 * time.Hour

	// greetedTTL is the session window for the one-time greeting
	greetedTTL = 12 * time.Hour
)

// RedisPreferenceStore implements cart.PreferenceStore using Redis
type RedisPreferenceStore struct {
	client *redis.Client
}

// NewRedisPreferenceStore creates a preference store on an existing Redis client
func NewRedisPreferenceStore(client *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client}
}

// RecentCategories returns the user's most recent category slugs, newest first
func (s *RedisPreferenceStore) RecentCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	slugs, err := s.client.LRange(ctx, recentKeyPrefix+userID.String(), 0, maxRecentCategories-1).Result()
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

// TouchCategory pushes a category slug onto the user's recency list,
// deduplicated and capped
func (s *RedisPreferenceStore) TouchCategory(ctx context.Context, userID uuid.UUID, slug string) error {
	key := recentKeyPrefix + userID.String()
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, key, 0, slug)
	pipe.LPush(ctx, key, slug)
	pipe.LTrim(ctx, key, 0, maxRecentCategories-1)
	pipe.Expire(ctx, key, recentTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// WasGreeted reports whether the session greeting was already shown
func (s *RedisPreferenceStore) WasGreeted(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, greetedKeyPrefix+userID.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkGreeted records that the greeting was shown for this session
func (s *RedisPreferenceStore) MarkGreeted(ctx context.Context, userID uuid.UUID) error {
	return s.client.Set(ctx, greetedKeyPrefix+userID.String(), "1", greetedTTL).Err()
}

// Ensure RedisPreferenceStore implements PreferenceStore
var _ cart.PreferenceStore = (*RedisPreferenceStore)(nil)

// InMemoryPreferenceStore implements cart.PreferenceStore with maps, for
// tests and single-node development setups
type InMemoryPreferenceStore struct {
	mu      sync.Mutex
	recent  map[uuid.UUID][]string
	greeted map[uuid.UUID]time.Time
}

// NewInMemoryPreferenceStore creates an in-memory preference store
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		recent:  make(map[uuid.UUID][]string),
		greeted: make(map[uuid.UUID]time.Time),
	}
}

// RecentCategories returns the user's most recent category slugs, newest first
func (s *InMemoryPreferenceStore) RecentCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.recent[userID]...), nil
}

// TouchCategory pushes a category slug onto the user's recency list
func (s *InMemoryPreferenceStore) TouchCategory(ctx context.Context, userID uuid.UUID, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.recent[userID]
	filtered := make([]string, 0, len(list)+1)
	filtered = append(filtered, slug)
	for _, existing := range list {
		if existing != slug {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) > maxRecentCategories {
		filtered = filtered[:maxRecentCategories]
	}
	s.recent[userID] = filtered
	return nil
}

// WasGreeted reports whether the session greeting was already shown
func (s *InMemoryPreferenceStore) WasGreeted(ctx context.Context, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.greeted[userID]
	if !ok {
		return false, nil
	}
	if time.Since(at) > greetedTTL {
		delete(s.greeted, userID)
		return false, nil
	}
	return true, nil
}

// MarkGreeted records that the greeting was shown for this session
func (s *InMemoryPreferenceStore) MarkGreeted(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.greeted[userID] = time.Now()
	return nil
}

// Ensure InMemoryPreferenceStore implements PreferenceStore
var _ cart.PreferenceStore = (*InMemoryPreferenceStore)(nil)
