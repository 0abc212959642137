package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps Idempotency-Key headers to the order they created,
// backed by Redis. Key format: idem:order:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the order id previously stored for this key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	orderID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: malformed value %q", val)
	}
	return orderID, true, nil
}

// Remember records the order created for this key (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, key string, orderID int64) error {
	return s.client.Set(ctx, s.key(key), strconv.FormatInt(orderID, 10), idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:order:" + key
}
