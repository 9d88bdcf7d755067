// Package personalization combines a user's preference store, behavior log
// and the opportunity scorer behind one serialized access point.
package personalization

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/ladder/internal/domain/behavior"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/preference"
	"github.com/okian/ladder/internal/domain/scoring"
	"github.com/okian/ladder/pkg/logger"
)

// RecommendedCategoryLimit caps GetRecommendedCategories.
const RecommendedCategoryLimit = 5

// BehaviorInput is a user action reported by the client.
type BehaviorInput struct {
	OpportunityID string
	Action        model.Action
	Category      string
	Location      string
	Field         string
}

// Snapshot is a point-in-time copy of an engine's state.
type Snapshot struct {
	Preferences []model.Preference    `json:"preferences"`
	Behaviors   []model.BehaviorEvent `json:"behaviors"` // most recent first
}

// Engine holds one user's personalization state. All methods are safe for
// concurrent use; a tracked behavior's event and preference update are
// observed together.
type Engine struct {
	mu          sync.RWMutex
	preferences *preference.Store
	behaviors   *behavior.Log
	scorer      *scoring.Scorer

	now           func() time.Time
	seed          bool
	popularity    scoring.PopularitySource
	recencyWindow time.Duration
	logger        logger.Logger
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		seed:   true,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.preferences = preference.NewStore(preference.WithClock(e.now), preference.WithSeed(e.seed))
	e.behaviors = behavior.NewLog(behavior.WithClock(e.now), behavior.WithSeed(e.seed))

	scorerOpts := []scoring.Option{
		scoring.WithClock(e.now),
		scoring.WithLogger(e.logger),
		scoring.WithRecencyWindow(e.recencyWindow),
	}
	if e.popularity != nil {
		scorerOpts = append(scorerOpts, scoring.WithPopularitySource(e.popularity))
	}
	e.scorer = scoring.NewScorer(scorerOpts...)
	return e
}

// GetPreferences returns the current preferences in insertion order.
func (e *Engine) GetPreferences() []model.Preference {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.preferences.List()
}

// UpdatePreference sets the weight for category. The weight is not clamped.
func (e *Engine) UpdatePreference(category string, weight float64) model.Preference {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preferences.Set(category, weight)
}

// TrackBehavior records the action and overwrites the category preference
// with the action's weight. The latest action always wins, even when an
// earlier action on the same category carried a stronger signal.
func (e *Engine) TrackBehavior(ctx context.Context, in BehaviorInput) model.BehaviorEvent {
	if !in.Action.Valid() {
		e.logger.Warn(ctx, "unrecognized behavior action; using lowest weight",
			logger.String("action", in.Action.String()),
			logger.Float64("weight", model.UnknownActionWeight),
		)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ev := e.behaviors.Track(in.OpportunityID, in.Action, in.Category, in.Location, in.Field)
	e.preferences.Set(in.Category, in.Action.Weight())
	return ev
}

// Events returns the behavior history, most recent first.
func (e *Engine) Events() []model.BehaviorEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.behaviors.Events()
}

// GetOpportunityScore scores a single opportunity.
func (e *Engine) GetOpportunityScore(opp model.Opportunity) model.OpportunityScore {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scorer.Score(e.signals(), opp)
}

// GetPersonalizedOpportunities ranks opps for this user, best first.
func (e *Engine) GetPersonalizedOpportunities(ctx context.Context, opps []model.Opportunity) []model.ScoredOpportunity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scorer.Rank(ctx, e.signals(), opps)
}

// GetRecommendedCategories returns up to five categories the user acted on
// most, by summed action weight.
func (e *Engine) GetRecommendedCategories() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.behaviors.RecommendedCategories(RecommendedCategoryLimit)
}

// Snapshot copies the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Preferences: e.preferences.List(),
		Behaviors:   e.behaviors.Events(),
	}
}

// Restore replaces the engine state with snap. The snapshot is validated
// first; on error the engine is unchanged.
func (e *Engine) Restore(snap Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preferences.Replace(snap.Preferences)
	e.behaviors.Replace(snap.Behaviors)
	return nil
}

func validateSnapshot(snap Snapshot) error {
	for i, p := range snap.Preferences {
		if strings.TrimSpace(p.Category) == "" {
			return fmt.Errorf("%w: preference %d has empty category", ErrInvalidSnapshot, i)
		}
		if p.Weight < 0 || p.Weight > 1 {
			return fmt.Errorf("%w: preference %q weight %v outside [0,1]", ErrInvalidSnapshot, p.Category, p.Weight)
		}
	}
	for i, b := range snap.Behaviors {
		if strings.TrimSpace(b.Category) == "" {
			return fmt.Errorf("%w: behavior %d has empty category", ErrInvalidSnapshot, i)
		}
		if i > 0 && b.Timestamp.After(snap.Behaviors[i-1].Timestamp) {
			return fmt.Errorf("%w: behaviors must be ordered most recent first", ErrInvalidSnapshot)
		}
	}
	return nil
}

// signals builds the read-only scoring view. Callers hold e.mu.
func (e *Engine) signals() scoring.Signals {
	return storeSignals{preferences: e.preferences, behaviors: e.behaviors}
}

type storeSignals struct {
	preferences *preference.Store
	behaviors   *behavior.Log
}

func (s storeSignals) PreferenceWeight(category string) (float64, bool) {
	return s.preferences.Weight(category)
}

func (s storeSignals) KnownLocation(location string) bool { return s.behaviors.HasLocation(location) }
func (s storeSignals) KnownField(field string) bool       { return s.behaviors.HasField(field) }
