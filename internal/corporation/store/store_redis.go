package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"onboard/internal/corporation/metrics"
	"onboard/internal/corporation/models"
)

const redisKeyPrefix = "corporation:lookup:"

// RedisCache shares lookup results between server instances, with TTL eviction.
type RedisCache struct {
	client   redis.Cmdable
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewRedisCache builds a cache over a connected client; metrics may be nil.
func NewRedisCache(client redis.Cmdable, cacheTTL time.Duration, metrics *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:   client,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// Find loads the result cached for number.
//
// Errors: ErrNotFound on a miss; Redis and decode errors are wrapped.
func (c *RedisCache) Find(ctx context.Context, number string) (*models.LookupResult, error) {
	start := time.Now()
	data, err := c.client.Get(ctx, redisKey(number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.recordMiss(start)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find corporation cache: %w", err)
	}

	var result models.LookupResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode corporation cache: %w", err)
	}
	c.recordHit(start)
	return &result, nil
}

// Save writes result under number, overwriting any previous entry.
func (c *RedisCache) Save(ctx context.Context, number string, result *models.LookupResult) error {
	if result == nil {
		return fmt.Errorf("lookup result is required")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode corporation cache: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(number), payload, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save corporation cache: %w", err)
	}
	return nil
}

func (c *RedisCache) recordHit(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheHit(metrics.BackendRedis, time.Since(start).Seconds())
}

func (c *RedisCache) recordMiss(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheMiss(metrics.BackendRedis, time.Since(start).Seconds())
}

func redisKey(number string) string {
	return redisKeyPrefix + number
}
