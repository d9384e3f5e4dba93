package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"onboard/internal/onboarding/handler"
	"onboard/internal/platform/config"
	"onboard/internal/platform/health"
	"onboard/internal/platform/metrics"
	"onboard/internal/platform/middleware"
)

// newRouter mounts the onboarding API, health probes and /metrics.
func newRouter(a *app, cfg config.Server, log *slog.Logger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(metrics.New(reg), routePattern))

	checks := health.New(cfg.Environment)
	checks.RegisterCheck("corporation_registry", a.registry.Health)
	if a.redis != nil {
		checks.RegisterCheck("redis", a.redis.Health)
	}
	checks.Register(r)
	r.Handle("/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		// Submissions may wait on a lookup and then on the profile API.
		r.Use(middleware.Timeout(2*cfg.Upstream.Timeout + cfg.Lookup.RetryDelay))
		r.Use(middleware.ContentTypeJSON)
		handler.New(a.forms, log).Register(r)
	})

	return r
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
