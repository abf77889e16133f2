package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore is a rate-limit counter backed by Redis, shared across
// processes. Key format: ratelimit:<class>:<client>.
type CounterStore struct {
	client *redis.Client
}

// NewCounterStore wraps the given Redis client as a rate-limit counter store.
func NewCounterStore(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

// Incr increments the counter for key and returns the new value. The key
// expires after window, which starts at the first increment.
func (s *CounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	full := "ratelimit:" + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, full)
	pipe.ExpireNX(ctx, full, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("ratelimit incr: %w", err)
	}
	return incr.Val(), nil
}
