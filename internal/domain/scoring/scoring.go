// Package scoring computes opportunity relevance from a user's preferences
// and behavior history, and ranks candidate lists by it.
package scoring

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/pkg/logger"
)

// Factor weights. They sum to 1 so the score stays in [0, 1].
const (
	CategoryWeight   = 0.40
	LocationWeight   = 0.20
	FieldWeight      = 0.15
	RecencyWeight    = 0.15
	PopularityWeight = 0.10
)

// Sub-factor values.
const (
	defaultCategoryMatch = 0.1
	knownLocationMatch   = 0.8
	unknownLocationMatch = 0.3
	knownFieldMatch      = 0.7
	unknownFieldMatch    = 0.4

	hoursPerDay = 24
)

// DefaultRecencyWindow is the age at which an opportunity stops earning recency.
const DefaultRecencyWindow = 30 * 24 * time.Hour

// Signals is a read-only view of the user state a score depends on.
type Signals interface {
	// PreferenceWeight returns the affinity for category, if any.
	PreferenceWeight(category string) (float64, bool)
	// KnownLocation reports whether the user acted on an opportunity at location.
	KnownLocation(location string) bool
	// KnownField reports whether the user acted on an opportunity in field.
	KnownField(field string) bool
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithClock overrides the time source used for recency.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPopularitySource replaces the popularity stand-in.
func WithPopularitySource(p PopularitySource) Option {
	return func(s *Scorer) {
		if p != nil {
			s.popularity = p
		}
	}
}

// WithRecencyWindow sets the age at which recency reaches zero.
func WithRecencyWindow(window time.Duration) Option {
	return func(s *Scorer) {
		if window > 0 {
			s.recencyWindow = window
		}
	}
}

// WithLogger sets the logger used for degraded-input warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scorer computes opportunity scores. It holds no user state and is safe for
// concurrent use as long as its PopularitySource is.
type Scorer struct {
	now           func() time.Time
	popularity    PopularitySource
	recencyWindow time.Duration
	logger        logger.Logger
}

// NewScorer creates a Scorer with random popularity and a 30 day recency window.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		now:           time.Now,
		popularity:    NewRandomPopularity(),
		recencyWindow: DefaultRecencyWindow,
		logger:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the weighted relevance of opp against sig.
func (s *Scorer) Score(sig Signals, opp model.Opportunity) model.OpportunityScore {
	f := model.Factors{
		CategoryMatch: defaultCategoryMatch,
		LocationMatch: unknownLocationMatch,
		FieldMatch:    unknownFieldMatch,
		Recency:       s.recency(opp.PostedDate),
		Popularity:    s.popularity.Popularity(opp),
	}
	if w, ok := sig.PreferenceWeight(opp.Category); ok {
		f.CategoryMatch = w
	}
	if sig.KnownLocation(opp.Location) {
		f.LocationMatch = knownLocationMatch
	}
	if sig.KnownField(opp.Field) {
		f.FieldMatch = knownFieldMatch
	}

	return model.OpportunityScore{
		OpportunityID: opp.ID,
		Score:         Combine(f),
		Factors:       f,
	}
}

// Combine applies the fixed factor weights.
func Combine(f model.Factors) float64 {
	return CategoryWeight*f.CategoryMatch +
		LocationWeight*f.LocationMatch +
		FieldWeight*f.FieldMatch +
		RecencyWeight*f.Recency +
		PopularityWeight*f.Popularity
}

// recency decays linearly from 1 at posting to 0 at the end of the window.
// Future posting dates count as brand new.
func (s *Scorer) recency(posted time.Time) float64 {
	age := s.now().Sub(posted)
	if age <= 0 {
		return 1
	}
	days := age.Hours() / hoursPerDay
	window := s.recencyWindow.Hours() / hoursPerDay
	return math.Max(0, 1-days/window)
}

// Rank scores every candidate and returns them ordered by score, highest
// first. Equal scores keep their input order. A nil list yields an empty,
// non-nil result.
func (s *Scorer) Rank(ctx context.Context, sig Signals, opps []model.Opportunity) []model.ScoredOpportunity {
	if opps == nil {
		s.logger.Warn(ctx, "rank called without a candidate list; returning empty result")
		return []model.ScoredOpportunity{}
	}

	out := make([]model.ScoredOpportunity, len(opps))
	for i, opp := range opps {
		out[i] = model.ScoredOpportunity{Opportunity: opp, Score: s.Score(sig, opp)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score.Score > out[j].Score.Score })
	return out
}
