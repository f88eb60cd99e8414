// Package cache provides a process-wide TTL cache with at-most-one
// computation per key. It is the only state the application keeps.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache memoizes computed values for a TTL window. Concurrent callers asking
// for the same key share a single in-flight computation; failed computations
// are never cached.
type Cache[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	onHit  func()
	onMiss func()

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry[V]
}

// Option adjusts cache construction.
type Option[V any] func(*Cache[V])

// WithClock substitutes the time source, used by tests to force expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// WithStats registers hit/miss hooks, typically Prometheus counters.
func WithStats[V any](onHit, onMiss func()) Option[V] {
	return func(c *Cache[V]) {
		c.onHit = onHit
		c.onMiss = onMiss
	}
}

// New builds a cache holding values for ttl after computation.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached value for key, or runs compute and stores
// the result for the TTL window. Within the window no recomputation happens;
// after expiry the next call recomputes.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if value, ok := c.lookup(key); ok {
		c.hit()
		return value, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have just stored the value.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}

		c.miss()
		value, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry[V]{value: value, storedAt: c.now()}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return result.(V), nil
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) hit() {
	if c.onHit != nil {
		c.onHit()
	}
}

func (c *Cache[V]) miss() {
	if c.onMiss != nil {
		c.onMiss()
	}
}
