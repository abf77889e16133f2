// Package ratelimit defines the rate-limit counter abstraction and its
// in-process implementation. The counter lives behind an interface so the
// middleware can be pointed at a distributed store without changing call
// sites.
package ratelimit

import (
	"context"
	"time"
)

// CounterStore counts requests per key within a fixed window.
type CounterStore interface {
	// Incr increments the counter for key and returns the new value. The
	// counter resets once window has elapsed since its first increment.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
