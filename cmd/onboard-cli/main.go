// Command onboard-cli collects an onboarding profile in the terminal and
// submits it to the profile API, verifying the corporation number on the way.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"onboard/internal/corporation/service"
	"onboard/internal/corporation/store"
	"onboard/internal/onboarding/orchestrator"
	"onboard/internal/onboarding/prompt"
	"onboard/internal/platform/config"
	"onboard/internal/platform/logger"
	"onboard/internal/upstream"
	corpClient "onboard/internal/upstream/corporation"
	profileClient "onboard/internal/upstream/profile"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}
	// Prompts own stdout; logs stay quiet on stderr unless asked for.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, "text")
	if os.Getenv("LOG_LEVEL") == "" {
		log = logger.NewWithWriter(os.Stderr, "warn", "text")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	creds := upstream.Credentials{APIKey: cfg.Upstream.APIKey}
	if cfg.Upstream.SigningKey != "" {
		creds.Signer = upstream.NewTokenSigner(cfg.Upstream.SigningKey, upstream.WithEnvironment(cfg.Environment))
	}

	verifier := service.New(
		corpClient.New(cfg.Upstream.BaseURL,
			corpClient.WithTimeout(cfg.Upstream.Timeout),
			corpClient.WithCredentials(creds),
		),
		service.WithLogger(log),
		service.WithCache(store.NewInMemoryCache(cfg.Lookup.CacheTTL)),
		service.WithRetryDelay(cfg.Lookup.RetryDelay),
		service.WithLookupTimeout(2*cfg.Upstream.Timeout+cfg.Lookup.RetryDelay),
	)
	submitter := profileClient.New(cfg.Upstream.BaseURL,
		profileClient.WithTimeout(cfg.Upstream.Timeout),
		profileClient.WithCredentials(creds),
	)

	form := orchestrator.New(verifier, submitter, orchestrator.WithLogger(log))
	defer form.Close()

	submitted, err := prompt.NewRunner(prompt.NewSurveyDriver(os.Stdout), form).Run(ctx)
	switch {
	case errors.Is(err, prompt.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "aborted")
		return 130
	case err != nil:
		log.Error("onboarding failed", "error", err)
		return 1
	case !submitted:
		return 1
	}
	return 0
}
