package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	corpMetrics "onboard/internal/corporation/metrics"
	"onboard/internal/corporation/service"
	"onboard/internal/corporation/store"
	"onboard/internal/corporation/tracer"
	onboardMetrics "onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/session"
	"onboard/internal/onboarding/workers/cleanup"
	"onboard/internal/platform/config"
	platformRedis "onboard/internal/platform/redis"
	"onboard/internal/upstream"
	corpClient "onboard/internal/upstream/corporation"
	profileClient "onboard/internal/upstream/profile"
)

const poolStatsInterval = 15 * time.Second

// lookupCache is a verification cache the cleanup worker can purge.
type lookupCache interface {
	service.Cache
	cleanup.CachePurger
}

// app holds the long lived components assembled at startup.
type app struct {
	registry *corpClient.Client
	redis    *platformRedis.Client
	forms    *session.Manager
	cleanup  *cleanup.CleanupService
}

func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger, reg prometheus.Registerer) (*app, error) {
	creds := upstream.Credentials{APIKey: cfg.Upstream.APIKey}
	if cfg.Upstream.SigningKey != "" {
		creds.Signer = upstream.NewTokenSigner(cfg.Upstream.SigningKey,
			upstream.WithEnvironment(cfg.Environment),
		)
	}

	registry := corpClient.New(cfg.Upstream.BaseURL,
		corpClient.WithCredentials(creds),
		corpClient.WithTimeout(cfg.Upstream.Timeout),
	)
	profiles := profileClient.New(cfg.Upstream.BaseURL,
		profileClient.WithCredentials(creds),
		profileClient.WithTimeout(cfg.Upstream.Timeout),
	)

	lookupMetrics := corpMetrics.New(reg)
	redisClient, err := platformRedis.New(ctx, cfg.Redis, platformRedis.NewPoolMetrics(reg))
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	memory := store.NewInMemoryCache(cfg.Lookup.CacheTTL, store.WithMemoryMetrics(lookupMetrics))
	var cache lookupCache = memory
	if redisClient != nil {
		cache = store.NewResilientCache(
			store.NewRedisCache(redisClient, cfg.Lookup.CacheTTL, lookupMetrics),
			memory,
			store.WithResilientLogger(log),
		)
	}

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.OTelEnabled {
		tr = tracer.NewOTel()
	}

	verifier := service.New(registry,
		service.WithLogger(log),
		service.WithTracer(tr),
		service.WithMetrics(lookupMetrics),
		service.WithCache(cache),
		service.WithRetryDelay(cfg.Lookup.RetryDelay),
		service.WithLookupTimeout(2*cfg.Upstream.Timeout+cfg.Lookup.RetryDelay),
	)

	forms := session.New(verifier, profiles,
		session.WithTTL(cfg.Sessions.TTL),
		session.WithLogger(log),
		session.WithMetrics(onboardMetrics.New(reg)),
	)

	worker, err := cleanup.New(forms,
		cleanup.WithCleanupInterval(cfg.Sessions.CleanupInterval),
		cleanup.WithCleanupLogger(log),
		cleanup.WithCachePurger(cache),
	)
	if err != nil {
		return nil, fmt.Errorf("create cleanup worker: %w", err)
	}

	return &app{
		registry: registry,
		redis:    redisClient,
		forms:    forms,
		cleanup:  worker,
	}, nil
}

func (a *app) close() {
	a.forms.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func recordPoolStats(ctx context.Context, client *platformRedis.Client) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.RecordPoolStats()
		}
	}
}
