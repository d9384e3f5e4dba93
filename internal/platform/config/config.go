package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"onboard/pkg/validation"
)

// DefaultUpstreamBaseURL is the hosted corporation registry and profile API.
const DefaultUpstreamBaseURL = "https://fe-hometask-api.qa.vault.tryvault.com"

// Server captures process level configuration for the onboarding service and CLI.
type Server struct {
	Addr        string `env:"ONBOARD_ADDR" validate:"required"`
	Environment string `env:"ENV" validate:"oneof=dev test staging production"`
	LogLevel    string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat   string `env:"LOG_FORMAT" validate:"oneof=json text"`
	OTelEnabled bool   `env:"OTEL_ENABLED"`

	Upstream Upstream
	Lookup   Lookup
	Sessions Sessions
	Redis    RedisConfig
}

// Upstream configures the HTTP clients for the corporation registry and profile API.
type Upstream struct {
	BaseURL    string        `env:"UPSTREAM_BASE_URL" validate:"required,url"`
	APIKey     string        `env:"UPSTREAM_API_KEY"`
	SigningKey string        `env:"UPSTREAM_SIGNING_KEY"`
	Timeout    time.Duration `env:"UPSTREAM_TIMEOUT" validate:"gt=0"`
}

// Lookup configures corporation verification.
type Lookup struct {
	RetryDelay time.Duration `env:"LOOKUP_RETRY_DELAY" validate:"gte=0"`
	CacheTTL   time.Duration `env:"LOOKUP_CACHE_TTL" validate:"gte=0"`
}

// Sessions configures how long an idle onboarding form is kept.
type Sessions struct {
	TTL             time.Duration `env:"FORM_SESSION_TTL" validate:"gt=0"`
	CleanupInterval time.Duration `env:"FORM_CLEANUP_INTERVAL" validate:"gt=0"`
}

// RedisConfig configures the optional shared lookup cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" validate:"gte=0"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" validate:"gte=0"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"`
}

// FromEnv loads an optional .env file, reads the environment over typed
// defaults and validates the result.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("failed to load .env file", "error", err)
	}

	cfg := Server{
		Addr:        getEnv("ONBOARD_ADDR", ":8080"),
		Environment: getEnv("ENV", "dev"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "json")),
		OTelEnabled: getEnvBool("OTEL_ENABLED", false),
		Upstream: Upstream{
			BaseURL:    strings.TrimRight(getEnv("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL), "/"),
			APIKey:     os.Getenv("UPSTREAM_API_KEY"),
			SigningKey: os.Getenv("UPSTREAM_SIGNING_KEY"),
			Timeout:    getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Lookup: Lookup{
			RetryDelay: getEnvDuration("LOOKUP_RETRY_DELAY", time.Second),
			CacheTTL:   getEnvDuration("LOOKUP_CACHE_TTL", 5*time.Minute),
		},
		Sessions: Sessions{
			TTL:             getEnvDuration("FORM_SESSION_TTL", 30*time.Minute),
			CleanupInterval: getEnvDuration("FORM_CLEANUP_INTERVAL", time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}

	if err := validation.Validate(cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Malformed values fall back to the default rather than failing startup.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
