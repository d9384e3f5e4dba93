package store

import (
	"context"
	"sync"
	"time"

	"onboard/internal/corporation/metrics"
	"onboard/internal/corporation/models"
)

type cachedResult struct {
	result   models.LookupResult
	storedAt time.Time
}

// InMemoryCache keeps lookup results in process with TTL expiration.
type InMemoryCache struct {
	mu       sync.RWMutex
	results  map[string]cachedResult
	cacheTTL time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
}

type MemoryOption func(*InMemoryCache)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *InMemoryCache) {
		c.now = now
	}
}

// WithMemoryMetrics records hits and misses. Metrics may be nil.
func WithMemoryMetrics(m *metrics.Metrics) MemoryOption {
	return func(c *InMemoryCache) {
		c.metrics = m
	}
}

func NewInMemoryCache(cacheTTL time.Duration, opts ...MemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		results:  make(map[string]cachedResult),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save stores result under number. A nil result is a no-op.
func (c *InMemoryCache) Save(_ context.Context, number string, result *models.LookupResult) error {
	if result == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[number] = cachedResult{result: *result, storedAt: c.now()}
	return nil
}

// Find returns the cached result for number, or ErrNotFound if absent or expired.
func (c *InMemoryCache) Find(_ context.Context, number string) (*models.LookupResult, error) {
	start := time.Now()
	c.mu.RLock()
	cached, ok := c.results[number]
	c.mu.RUnlock()
	if !ok || c.now().Sub(cached.storedAt) >= c.cacheTTL {
		c.recordMiss(start)
		return nil, ErrNotFound
	}
	c.recordHit(start)
	result := cached.result
	return &result, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *InMemoryCache) Purge(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for number, cached := range c.results {
		if now.Sub(cached.storedAt) >= c.cacheTTL {
			delete(c.results, number)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired ones included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func (c *InMemoryCache) recordHit(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheHit(metrics.BackendMemory, time.Since(start).Seconds())
}

func (c *InMemoryCache) recordMiss(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheMiss(metrics.BackendMemory, time.Since(start).Seconds())
}
