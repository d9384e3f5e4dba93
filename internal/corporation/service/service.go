// Package service verifies corporation numbers against the registry.
//
// Verify layers a result cache, deduplication of identical concurrent
// lookups and a single retry over the registry client. Only positive
// verdicts are cached, so a rejected number is asked again next time.
// Failures are never cached.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"onboard/internal/corporation/metrics"
	"onboard/internal/corporation/models"
	"onboard/internal/corporation/store"
	"onboard/internal/corporation/tracer"
	"onboard/internal/platform/privacy"
	"onboard/internal/upstream"
	corpclient "onboard/internal/upstream/corporation"
	dErrors "onboard/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks LookupClient,Cache

const (
	// DefaultRetryDelay is the pause before the single retry of a failed lookup.
	DefaultRetryDelay = time.Second
	// DefaultLookupTimeout bounds a shared lookup, retry included.
	DefaultLookupTimeout = 30 * time.Second
)

// LookupClient performs one registry lookup.
type LookupClient interface {
	Lookup(ctx context.Context, number string) (*models.LookupResult, error)
}

// Cache stores registry verdicts by corporation number. Find returns
// store.ErrNotFound on a miss.
type Cache interface {
	Find(ctx context.Context, number string) (*models.LookupResult, error)
	Save(ctx context.Context, number string, result *models.LookupResult) error
}

type Service struct {
	client        LookupClient
	cache         Cache
	group         singleflight.Group
	retryDelay    time.Duration
	lookupTimeout time.Duration
	logger        *slog.Logger
	tracer        tracer.Tracer
	metrics       *metrics.Metrics

	mu      sync.Mutex
	flights map[string]*flight
	seq     uint64
}

// flight is one shared registry lookup. It runs on its own context so a
// waiter giving up does not fail the others; it is cancelled once nobody
// waits for it.
type flight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithMetrics records lookup outcomes and retries. Metrics may be nil.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithLookupTimeout bounds a shared lookup, retry included. Zero or less
// keeps DefaultLookupTimeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

func New(client LookupClient, opts ...Option) *Service {
	s := &Service{
		client:        client,
		retryDelay:    DefaultRetryDelay,
		lookupTimeout: DefaultLookupTimeout,
		logger:        slog.Default(),
		tracer:        tracer.NewNoop(),
		flights:       make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify returns the registry's verdict on number. A negative verdict is a
// result, not an error; errors mean the registry could not be consulted.
func (s *Service) Verify(ctx context.Context, number string) (result *models.LookupResult, err error) {
	if err := models.ValidateNumber(number); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrCorporationHash, tracer.HashCorporationNumber(number)),
	)
	defer func() { span.End(err) }()

	if cached, ok := s.fromCache(ctx, number); ok {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true), tracer.Bool(tracer.AttrValid, cached.Valid))
		return cached, nil
	}
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	f, ch := s.join(ctx, number)

	select {
	case <-ctx.Done():
		s.leave(number, f)
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "corporation lookup abandoned")
	case res := <-ch:
		s.leave(number, f)
		if res.Shared {
			span.SetAttributes(tracer.Bool(tracer.AttrShared, true))
			if s.metrics != nil {
				s.metrics.IncrementShared()
			}
		}
		if res.Err != nil {
			return nil, res.Err
		}
		shared := *res.Val.(*models.LookupResult)
		span.SetAttributes(tracer.Bool(tracer.AttrValid, shared.Valid))
		return &shared, nil
	}
}

// join attaches the caller to the lookup in flight for number, starting one
// if there is none. DoChan runs under mu so a waiter can never join a call
// whose flight was already retired.
func (s *Service) join(ctx context.Context, number string) (*flight, <-chan singleflight.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[number]
	if !ok {
		s.seq++
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		f = &flight{
			key:    number + "#" + strconv.FormatUint(s.seq, 10),
			ctx:    fctx,
			cancel: cancel,
		}
		s.flights[number] = f
	}
	f.waiters++

	ch := s.group.DoChan(f.key, func() (any, error) {
		defer s.retire(number, f)
		return s.lookupWithRetry(f.ctx, number)
	})
	return f, ch
}

// leave drops one waiter. With none left the lookup is cancelled.
func (s *Service) leave(number string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.waiters--
	if f.waiters == 0 {
		s.retireLocked(number, f)
	}
}

func (s *Service) retire(number string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retireLocked(number, f)
}

func (s *Service) retireLocked(number string, f *flight) {
	if s.flights[number] == f {
		delete(s.flights, number)
	}
	f.cancel()
}

func (s *Service) fromCache(ctx context.Context, number string) (*models.LookupResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, err := s.cache.Find(ctx, number)
	if err == nil {
		return cached, true
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.WarnContext(ctx, "corporation cache read failed",
			"corporation", privacy.MaskCorporationNumber(number),
			"error", err,
		)
	}
	return nil, false
}

// lookupWithRetry calls the registry and retries once after retryDelay,
// whatever the failure.
func (s *Service) lookupWithRetry(ctx context.Context, number string) (*models.LookupResult, error) {
	start := time.Now()

	result, err := s.attempt(ctx, number, 1)
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	} else if err != nil {
		s.logger.WarnContext(ctx, "corporation lookup failed, retrying",
			"corporation", privacy.MaskCorporationNumber(number),
			"category", upstream.CategoryOf(err),
			"retry_in", s.retryDelay,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementRetries()
		}
		if waitErr := sleep(ctx, s.retryDelay); waitErr != nil {
			err = waitErr
		} else {
			result, err = s.attempt(ctx, number, 2)
		}
	}

	if err != nil {
		s.record(metrics.OutcomeError, start)
		s.logger.ErrorContext(ctx, "corporation lookup failed",
			"corporation", privacy.MaskCorporationNumber(number),
			"category", upstream.CategoryOf(err),
			"error", err,
		)
		return nil, translateError(err)
	}

	outcome := metrics.OutcomeInvalid
	if result.Valid {
		outcome = metrics.OutcomeValid
	}
	s.record(outcome, start)

	if s.cache != nil && result.Valid {
		if saveErr := s.cache.Save(ctx, number, result); saveErr != nil {
			s.logger.WarnContext(ctx, "corporation cache write failed",
				"corporation", privacy.MaskCorporationNumber(number),
				"error", saveErr,
			)
		}
	}
	return result, nil
}

func (s *Service) attempt(ctx context.Context, number string, n int64) (*models.LookupResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookupCall, tracer.Int64(tracer.AttrAttempt, n))
	result, err := s.client.Lookup(ctx, number)
	if err != nil {
		span.SetAttributes(tracer.String(tracer.AttrErrorCategory, string(upstream.CategoryOf(err))))
	} else if result == nil {
		err = upstream.NewError(upstream.ErrorContractMismatch, corpclient.ServiceName, "empty lookup result", nil)
	}
	if n > 1 {
		span.AddEvent(tracer.EventRetry)
	}
	span.End(err)
	return result, err
}

func (s *Service) record(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordLookup(outcome, time.Since(start).Seconds())
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// translateError maps upstream failures to domain errors, keeping the cause.
func translateError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "corporation lookup abandoned")
	}
	return dErrors.Wrap(err, upstream.DomainCode(err), "corporation lookup failed")
}
