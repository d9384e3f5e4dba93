//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"onboard/internal/corporation/metrics"
	"onboard/internal/corporation/models"
	"onboard/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	metrics *metrics.Metrics
	cache   *RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.SharedRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.cache = NewRedisCache(s.redis.Client, time.Minute, s.metrics)
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	_, err := s.cache.Find(ctx, "123456789")
	s.ErrorIs(err, ErrNotFound)

	s.Require().NoError(s.cache.Save(ctx, "123456789", &models.LookupResult{Valid: true, CorporationNumber: "123456789"}))

	found, err := s.cache.Find(ctx, "123456789")
	s.Require().NoError(err)
	s.True(found.Valid)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheHitsTotal.WithLabelValues(metrics.BackendRedis)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheMissesTotal.WithLabelValues(metrics.BackendRedis)))
}

func (s *RedisCacheSuite) TestEntriesCarryTTL() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "000000000", &models.LookupResult{Valid: false, Message: "Corporation number not found"}))

	ttl, err := s.redis.Client.TTL(ctx, redisKey("000000000")).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisCacheSuite) TestRejectsNilResult() {
	s.Error(s.cache.Save(context.Background(), "123456789", nil))
}
