package store

import (
	"context"
	"errors"
	"log/slog"

	"onboard/internal/corporation/models"
	"onboard/pkg/platform/circuit"
)

// Backend is a lookup result cache that may fail, such as RedisCache.
type Backend interface {
	Find(ctx context.Context, number string) (*models.LookupResult, error)
	Save(ctx context.Context, number string, result *models.LookupResult) error
}

// ResilientCache keeps serving lookups from process memory while the shared
// backend is failing. Results are written to both; reads prefer the backend
// and fall back to memory once the breaker opens.
type ResilientCache struct {
	primary  Backend
	fallback *InMemoryCache
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type ResilientOption func(*ResilientCache)

func WithBreaker(b *circuit.Breaker) ResilientOption {
	return func(c *ResilientCache) {
		if b != nil {
			c.breaker = b
		}
	}
}

func WithResilientLogger(logger *slog.Logger) ResilientOption {
	return func(c *ResilientCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewResilientCache(primary Backend, fallback *InMemoryCache, opts ...ResilientOption) *ResilientCache {
	c := &ResilientCache{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("corporation_cache"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find returns ErrNotFound on a miss. Backend errors surface only while the
// breaker is closed; once open the memory copy answers instead.
func (c *ResilientCache) Find(ctx context.Context, number string) (*models.LookupResult, error) {
	result, err := c.primary.Find(ctx, number)
	if err == nil || errors.Is(err, ErrNotFound) {
		c.record(ctx, nil)
		return result, err
	}

	c.record(ctx, err)
	if !c.breaker.Open() {
		return nil, err
	}
	return c.fallback.Find(ctx, number)
}

// Save always succeeds in memory; a backend failure is returned only while
// the breaker is closed.
func (c *ResilientCache) Save(ctx context.Context, number string, result *models.LookupResult) error {
	_ = c.fallback.Save(ctx, number, result)

	err := c.primary.Save(ctx, number, result)
	c.record(ctx, err)
	if err != nil && !c.breaker.Open() {
		return err
	}
	return nil
}

// Purge drops expired entries from the memory copy.
func (c *ResilientCache) Purge(ctx context.Context) int {
	return c.fallback.Purge(ctx)
}

// Degraded reports whether reads are being served from memory.
func (c *ResilientCache) Degraded() bool {
	return c.breaker.Open()
}

func (c *ResilientCache) record(ctx context.Context, err error) {
	switch c.breaker.Record(err) {
	case circuit.Opened:
		c.logger.ErrorContext(ctx, "corporation cache degraded to memory",
			"circuit", c.breaker.Name(),
			"error", err,
		)
	case circuit.Closed:
		c.logger.InfoContext(ctx, "corporation cache recovered",
			"circuit", c.breaker.Name(),
		)
	}
}
