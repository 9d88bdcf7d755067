package personalization

import (
	"time"

	"github.com/okian/ladder/internal/domain/scoring"
	"github.com/okian/ladder/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the time source shared by the stores and the scorer.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSeed controls whether new engines start with the default preferences
// and behavior history.
func WithSeed(seed bool) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithPopularitySource replaces the random popularity stand-in.
func WithPopularitySource(p scoring.PopularitySource) Option {
	return func(e *Engine) {
		if p != nil {
			e.popularity = p
		}
	}
}

// WithRecencyWindow sets the age at which an opportunity stops earning recency.
func WithRecencyWindow(window time.Duration) Option {
	return func(e *Engine) {
		if window > 0 {
			e.recencyWindow = window
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
