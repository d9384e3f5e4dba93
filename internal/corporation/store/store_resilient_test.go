package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onboard/internal/corporation/models"
	"onboard/pkg/platform/circuit"
)

var errBackendDown = errors.New("connection refused")

// flakyBackend is an in-memory Backend whose failures are switched on and off.
type flakyBackend struct {
	down    bool
	entries map[string]*models.LookupResult
}

func (b *flakyBackend) Find(_ context.Context, number string) (*models.LookupResult, error) {
	if b.down {
		return nil, errBackendDown
	}
	r, ok := b.entries[number]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (b *flakyBackend) Save(_ context.Context, number string, result *models.LookupResult) error {
	if b.down {
		return errBackendDown
	}
	b.entries[number] = result
	return nil
}

type ResilientCacheSuite struct {
	suite.Suite
	backend *flakyBackend
	cache   *ResilientCache
}

func TestResilientCacheSuite(t *testing.T) {
	suite.Run(t, new(ResilientCacheSuite))
}

func (s *ResilientCacheSuite) SetupTest() {
	s.backend = &flakyBackend{entries: map[string]*models.LookupResult{}}
	s.cache = NewResilientCache(s.backend, NewInMemoryCache(5*time.Minute),
		WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))),
		WithResilientLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ResilientCacheSuite) TestHealthyBackendServesReads() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "123456789", &models.LookupResult{Valid: true}))

	found, err := s.cache.Find(ctx, "123456789")
	s.Require().NoError(err)
	s.True(found.Valid)
	s.Contains(s.backend.entries, "123456789")

	_, err = s.cache.Find(ctx, "999999999")
	s.ErrorIs(err, ErrNotFound)
	s.False(s.cache.Degraded())
}

func (s *ResilientCacheSuite) TestBackendErrorsSurfaceUntilBreakerOpens() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "123456789", &models.LookupResult{Valid: true}))
	s.backend.down = true

	_, err := s.cache.Find(ctx, "123456789")
	s.ErrorIs(err, errBackendDown)

	found, err := s.cache.Find(ctx, "123456789")
	s.Require().NoError(err, "second failure opens the breaker")
	s.True(found.Valid)
	s.True(s.cache.Degraded())

	s.NoError(s.cache.Save(ctx, "000000000", &models.LookupResult{Valid: false}))
	found, err = s.cache.Find(ctx, "000000000")
	s.Require().NoError(err)
	s.False(found.Valid)
}

func (s *ResilientCacheSuite) TestRecoversWhenBackendReturns() {
	ctx := context.Background()
	s.backend.down = true
	_, _ = s.cache.Find(ctx, "123456789")
	_, _ = s.cache.Find(ctx, "123456789")
	s.Require().True(s.cache.Degraded())

	s.backend.down = false
	_, err := s.cache.Find(ctx, "123456789")
	s.ErrorIs(err, ErrNotFound)
	s.False(s.cache.Degraded())
}

func (s *ResilientCacheSuite) TestPurgeDropsExpiredMemoryEntries() {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	memory := NewInMemoryCache(time.Minute, WithClock(func() time.Time { return now }))
	cache := NewResilientCache(s.backend, memory)

	s.Require().NoError(cache.Save(context.Background(), "123456789", &models.LookupResult{Valid: true}))
	now = now.Add(2 * time.Minute)
	s.Equal(1, cache.Purge(context.Background()))
}
