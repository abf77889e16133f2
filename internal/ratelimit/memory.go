package ratelimit

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type windowCounter struct {
	start  time.Time
	window time.Duration
	count  int64
}

// MemoryStore is an in-process CounterStore. Counts are advisory: they are
// lost on restart and not shared between replicas.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewMemoryStore returns a MemoryStore with a background sweep that evicts
// expired windows.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		counters: make(map[string]*windowCounter),
		stop:     make(chan struct{}),
		now:      time.Now,
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || now.Sub(c.start) >= window {
		s.counters[key] = &windowCounter{start: now, window: window, count: 1}
		return 1, nil
	}
	c.count++
	return c.count, nil
}

// Close stops the background sweep.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

// evictExpired drops counters whose own window has elapsed. A live counter is
// never evicted mid-window, whatever its window length.
func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, c := range s.counters {
		if now.Sub(c.start) >= c.window {
			delete(s.counters, key)
		}
	}
}
