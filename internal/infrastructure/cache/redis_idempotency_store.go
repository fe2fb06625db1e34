package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// RedisIdempotencyStore shares gateway event claims across instances.
// SET NX hands exactly one instance the claim; DEL releases it when
// processing fails so the gateway's redelivery lands on a clean slate.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewRedisIdempotencyStoreWithClient wraps an existing Redis client.
// The caller owns the client's lifecycle.
func NewRedisIdempotencyStoreWithClient(client *redis.Client, prefix string) *RedisIdempotencyStore {
	if prefix == "" {
		prefix = "webhook:dedup"
	}
	return &RedisIdempotencyStore{client: client, prefix: prefix}
}

// MarkProcessed claims an event ID for ttl, reporting false when
// another instance already holds the claim
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.key(eventID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim gateway event %s: %w", eventID, err)
	}
	return claimed, nil
}

// Unmark releases a claim so a redelivery of the event gets processed
func (s *RedisIdempotencyStore) Unmark(ctx context.Context, eventID string) error {
	if err := s.client.Del(ctx, s.key(eventID)).Err(); err != nil {
		return fmt.Errorf("release gateway event %s: %w", eventID, err)
	}
	return nil
}

func (s *RedisIdempotencyStore) key(eventID string) string {
	return s.prefix + ":" + eventID
}

// Ensure RedisIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
