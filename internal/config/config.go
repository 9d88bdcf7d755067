// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Load(ctx) layers a YAML file, an optional dotenv file and environment
//     variables over the defaults.
//   - Validation errors are wrapped with ErrInvalidConfig.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the encoder: json for production, console for local runs.
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// ShutdownTimeoutMS bounds graceful shutdown of the HTTP server.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms" validate:"gt=0"`

	// DedupeSize sets how many behavior idempotency keys are remembered.
	DedupeSize int `koanf:"dedupe_size" validate:"gt=0"`

	// CatalogCapacity caps the opportunity catalog; 0 means unbounded.
	CatalogCapacity int `koanf:"catalog_capacity" validate:"gte=0"`

	// SeedDefaults starts new sessions with the default preferences and history.
	SeedDefaults bool `koanf:"seed_defaults"`

	// PopularityMin and PopularityMax bound the random popularity draw.
	PopularityMin float64 `koanf:"popularity_min" validate:"gte=0,lte=1"`
	PopularityMax float64 `koanf:"popularity_max" validate:"gtefield=PopularityMin,lte=1"`

	// RecencyWindowDays is the age at which an opportunity stops earning recency.
	RecencyWindowDays int `koanf:"recency_window_days" validate:"gt=0"`

	// RateLimitRequests per RateLimitWindowMS per client IP; 0 disables limiting.
	RateLimitRequests int `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindowMS int `koanf:"rate_limit_window_ms" validate:"gt=0"`

	// MaxCandidates caps the candidate list accepted by POST /rank.
	MaxCandidates int `koanf:"max_candidates" validate:"gt=0"`

	// MaxFeedLimit caps GET /feed?limit.
	MaxFeedLimit int `koanf:"max_feed_limit" validate:"gt=0"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Empty disables CORS handling. Env form is comma separated.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"dive,required"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "json",
		Addr:               ":9080",
		ShutdownTimeoutMS:  10_000,
		DedupeSize:         50_000,
		CatalogCapacity:    0,
		SeedDefaults:       true,
		PopularityMin:      0.3,
		PopularityMax:      0.8,
		RecencyWindowDays:  30,
		RateLimitRequests:  100,
		RateLimitWindowMS:  1_000,
		MaxCandidates:      1_000,
		MaxFeedLimit:       100,
		CORSAllowedOrigins: []string{"*"},
	}
}
