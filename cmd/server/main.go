package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onboard/internal/platform/config"
	"onboard/internal/platform/httpserver"
	"onboard/internal/platform/logger"
	"onboard/internal/platform/metrics"
)

// main wires dependencies, exposes the onboarding API and keeps the server
// lifecycle small. Form behaviour lives in internal/onboarding.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("info", "json").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	log.Info("initializing onboarding service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"upstream", cfg.Upstream.BaseURL,
		"redis_enabled", cfg.Redis.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	app, err := buildApp(ctx, cfg, log, reg)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.close()

	go func() {
		if err := app.cleanup.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("form cleanup stopped", "error", err)
		}
	}()
	if app.redis != nil {
		go recordPoolStats(ctx, app.redis)
	}

	srv := httpserver.New(cfg.Addr, newRouter(app, cfg, log, reg), cfg.Upstream.Timeout)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
