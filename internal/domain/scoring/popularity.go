package scoring

import (
	"math/rand/v2"

	"github.com/okian/ladder/internal/domain/model"
)

// Default popularity draw bounds.
const (
	DefaultPopularityMin = 0.3
	DefaultPopularityMax = 0.8
)

// PopularitySource supplies the popularity factor for an opportunity.
type PopularitySource interface {
	Popularity(opp model.Opportunity) float64
}

// RandomPopularity draws a uniform value in [Min, Max). It stands in for a
// real popularity signal, which the system does not have yet.
type RandomPopularity struct {
	Min float64
	Max float64
}

// NewRandomPopularity returns the default [0.3, 0.8) stand-in.
func NewRandomPopularity() RandomPopularity {
	return RandomPopularity{Min: DefaultPopularityMin, Max: DefaultPopularityMax}
}

// Popularity uses the goroutine-safe top-level generator, so no RNG state is
// shared between scorers.
func (r RandomPopularity) Popularity(model.Opportunity) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min) //nolint:gosec // not security sensitive
}

// FixedPopularity returns the same value for every opportunity.
type FixedPopularity float64

// Popularity returns p.
func (p FixedPopularity) Popularity(model.Opportunity) float64 { return float64(p) }

// PopularityFunc adapts a function to PopularitySource.
type PopularityFunc func(model.Opportunity) float64

// Popularity calls f.
func (f PopularityFunc) Popularity(opp model.Opportunity) float64 { return f(opp) }
