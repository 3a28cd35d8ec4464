package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TTL holds a single value that expires after a fixed duration. Concurrent
// misses share one call to the loader. The cache is local to the process.
type TTL[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	value     T
	expiresAt time.Time
	valid     bool
	gen       uint64

	group singleflight.Group
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func NewTTL[T any](ttl time.Duration, opts ...Option) *TTL[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[T]{ttl: ttl, now: o.now}
}

// Get returns the cached value, calling load when it is missing or expired.
// A failed load leaves the cache empty.
func (c *TTL[T]) Get(ctx context.Context, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.peek(); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	// Keyed by generation: a Get issued after Invalidate never joins a load
	// that started before it.
	res, err, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		c.store(v, gen)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Set stores v directly, resetting the expiry.
func (c *TTL[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.value = v
	c.expiresAt = c.now().Add(c.ttl)
	c.valid = true
}

// Invalidate drops the cached value. A load already in flight when
// Invalidate is called does not repopulate the cache.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	var zero T
	c.value = zero
	c.valid = false
	c.expiresAt = time.Time{}
}

func (c *TTL[T]) peek() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.valid && c.now().Before(c.expiresAt) {
		return c.value, true
	}
	var zero T
	return zero, false
}

func (c *TTL[T]) store(v T, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.value = v
	c.expiresAt = c.now().Add(c.ttl)
	c.valid = true
}
