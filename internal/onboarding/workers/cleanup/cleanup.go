package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// FormStore exposes cleanup for idle onboarding forms.
type FormStore interface {
	DeleteExpiredForms(ctx context.Context, now time.Time) (int, error)
}

// CachePurger drops expired lookup results from an in-process cache.
type CachePurger interface {
	Purge(ctx context.Context) int
}

// CleanupResult summarizes one cleanup run.
type CleanupResult struct {
	DeletedForms       int
	PurgedCacheEntries int
}

// CleanupService periodically removes idle forms and expired cache entries.
type CleanupService struct {
	forms    FormStore
	cache    CachePurger
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

type CleanupOption func(*CleanupService)

// WithCleanupInterval overrides the interval when greater than zero.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCachePurger also purges cache on every run.
func WithCachePurger(cache CachePurger) CleanupOption {
	return func(s *CleanupService) {
		s.cache = cache
	}
}

func WithCleanupClock(now func() time.Time) CleanupOption {
	return func(s *CleanupService) {
		s.now = now
	}
}

func New(forms FormStore, opts ...CleanupOption) (*CleanupService, error) {
	if forms == nil {
		return nil, fmt.Errorf("form store is required")
	}
	svc := &CleanupService{
		forms:    forms,
		interval: time.Minute,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup every interval until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "onboarding cleanup failed", "error", err)
				continue
			}
			if res.DeletedForms > 0 || res.PurgedCacheEntries > 0 {
				s.logger.DebugContext(ctx, "onboarding cleanup",
					"deleted_forms", res.DeletedForms,
					"purged_cache_entries", res.PurgedCacheEntries,
				)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single cleanup pass.
func (s *CleanupService) RunOnce(ctx context.Context) (CleanupResult, error) {
	var res CleanupResult
	var errs []error

	deleted, err := s.forms.DeleteExpiredForms(ctx, s.now())
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired forms: %w", err))
	} else {
		res.DeletedForms = deleted
	}

	if s.cache != nil {
		res.PurgedCacheEntries = s.cache.Purge(ctx)
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}
