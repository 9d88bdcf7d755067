// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	repository "github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/dedupe"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/personalization"
	"github.com/okian/ladder/internal/domain/scoring"
	"github.com/okian/ladder/internal/domain/types"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
)

// unknownActionLabel is the metrics label for actions outside the known set.
const unknownActionLabel = "unknown"

// Service implements the API dependencies for the personalization system.
// It holds one engine per user session.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	// Core components
	catalog repository.Catalog
	deduper dedupe.Deduper

	// Configuration
	dedupeSize      int
	catalogCapacity int
	seed            bool
	popularity      scoring.PopularitySource
	recencyWindow   time.Duration
	now             func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// session is one user's engine plus the dedupe keys recorded for it, so the
// keys can be released when the session is dropped.
type session struct {
	engine *personalization.Engine

	mu   sync.Mutex
	keys []string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDedupeSize sets how many behavior idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCatalogCapacity caps the opportunity catalog; 0 means unbounded.
func WithCatalogCapacity(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.catalogCapacity = n
		}
	}
}

// WithSeedDefaults controls whether new sessions start with the default
// preferences and behavior history.
func WithSeedDefaults(seed bool) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithPopularityRange sets the bounds of the random popularity draw.
func WithPopularityRange(minP, maxP float64) Option {
	return func(s *Service) {
		if minP >= 0 && maxP >= minP {
			s.popularity = scoring.RandomPopularity{Min: minP, Max: maxP}
		}
	}
}

// WithPopularitySource replaces the popularity stand-in for every session.
func WithPopularitySource(p scoring.PopularitySource) Option {
	return func(s *Service) {
		if p != nil {
			s.popularity = p
		}
	}
}

// WithRecencyWindow sets the age at which an opportunity stops earning recency.
func WithRecencyWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.recencyWindow = window
		}
	}
}

// WithClock sets the time source for every session.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:      make(map[string]*session),
		dedupeSize:    50000,
		seed:          true,
		popularity:    scoring.NewRandomPopularity(),
		recencyWindow: scoring.DefaultRecencyWindow,
		now:           time.Now,
		logger:        logger.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.catalog = repository.NewMemoryCatalog(repository.WithCapacity(s.catalogCapacity))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start marks the service as running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.started = true
	s.logger.Info(ctx, "personalization service started",
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogCapacity", s.catalogCapacity),
		logger.Bool("seedDefaults", s.seed),
		logger.String("recencyWindow", s.recencyWindow.String()),
	)
	return nil
}

// Stop drops every session. The catalog is kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	dropped := len(s.sessions)
	ctx := context.Background()
	for _, us := range s.sessions {
		s.releaseKeys(ctx, us)
	}
	s.sessions = make(map[string]*session)
	s.started = false
	metrics.UpdateActiveSessions(0)
	s.logger.Info(context.Background(), "personalization service stopped",
		logger.Int("droppedSessions", dropped),
	)
}

// session returns the user's engine, creating it on first use.
func (s *Service) session(userID string) (*personalization.Engine, error) {
	us, err := s.userSession(userID)
	if err != nil {
		return nil, err
	}
	return us.engine, nil
}

func (s *Service) userSession(userID string) (*session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}

	s.mu.RLock()
	us, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return us, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if us, ok = s.sessions[userID]; ok {
		return us, nil
	}
	e := personalization.New(
		personalization.WithClock(s.now),
		personalization.WithSeed(s.seed),
		personalization.WithPopularitySource(s.popularity),
		personalization.WithRecencyWindow(s.recencyWindow),
		personalization.WithLogger(s.logger.Named("engine")),
	)
	us = &session{engine: e}
	s.sessions[userID] = us
	metrics.UpdateActiveSessions(len(s.sessions))
	return us, nil
}

// releaseKeys forgets the dedupe keys recorded for us, so a client may
// replay its events into a fresh session.
func (s *Service) releaseKeys(ctx context.Context, us *session) {
	us.mu.Lock()
	defer us.mu.Unlock()

	for _, key := range us.keys {
		s.deduper.Unrecord(ctx, key)
	}
	us.keys = nil
	metrics.UpdateDedupeSize(s.deduper.Size())
}

// Preferences returns the user's preferences in insertion order.
func (s *Service) Preferences(_ context.Context, userID string) ([]model.Preference, error) {
	e, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return e.GetPreferences(), nil
}

// UpdatePreference sets an explicit category weight.
func (s *Service) UpdatePreference(ctx context.Context, userID, category string, weight float64) (model.Preference, error) {
	e, err := s.session(userID)
	if err != nil {
		return model.Preference{}, err
	}
	p := e.UpdatePreference(category, weight)
	metrics.RecordPreferenceUpdate()
	s.logger.Debug(ctx, "preference updated",
		logger.String("userID", userID),
		logger.String("category", category),
		logger.Float64("weight", weight),
	)
	return p, nil
}

// TrackBehavior records an action for the user. When eventID is set and was
// already applied for this user, nothing changes and duplicate is true.
//
// The session stays registered until the event is applied: a concurrent
// DropSession waits, then releases the recorded key with the session.
func (s *Service) TrackBehavior(ctx context.Context, userID, eventID string, in personalization.BehaviorInput) (model.BehaviorEvent, bool, error) {
	userID = strings.TrimSpace(userID)
	for {
		us, err := s.userSession(userID)
		if err != nil {
			return model.BehaviorEvent{}, false, err
		}

		s.mu.RLock()
		if s.sessions[userID] != us {
			// Dropped after lookup; start over on a fresh session.
			s.mu.RUnlock()
			continue
		}
		ev, duplicate := s.track(ctx, us, userID, eventID, in)
		s.mu.RUnlock()
		return ev, duplicate, nil
	}
}

// track applies one behavior to us. The caller holds s.mu for reading.
func (s *Service) track(ctx context.Context, us *session, userID, eventID string, in personalization.BehaviorInput) (model.BehaviorEvent, bool) {
	if eventID != "" {
		key := userID + "/" + eventID
		us.mu.Lock()
		seen := s.deduper.SeenAndRecord(ctx, key)
		if !seen {
			us.keys = append(us.keys, key)
			// Older keys have left the deduper already.
			if len(us.keys) > s.dedupeSize {
				us.keys = us.keys[len(us.keys)-s.dedupeSize:]
			}
		}
		us.mu.Unlock()
		if seen {
			metrics.RecordBehaviorDuplicate()
			s.logger.Debug(ctx, "duplicate behavior detected, skipping",
				logger.String("userID", userID),
				logger.String("eventID", eventID),
			)
			return model.BehaviorEvent{}, true
		}
		metrics.UpdateDedupeSize(s.deduper.Size())
	}

	label := in.Action.String()
	if !in.Action.Valid() {
		label = unknownActionLabel
		metrics.RecordUnknownAction()
	}
	ev := us.engine.TrackBehavior(ctx, in)
	metrics.RecordBehaviorTracked(label)
	return ev, false
}

// Behaviors returns the user's behavior history, most recent first.
func (s *Service) Behaviors(_ context.Context, userID string) ([]model.BehaviorEvent, error) {
	e, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return e.Events(), nil
}

// Score scores one opportunity for the user.
func (s *Service) Score(_ context.Context, userID string, opp model.Opportunity) (model.OpportunityScore, error) {
	e, err := s.session(userID)
	if err != nil {
		return model.OpportunityScore{}, err
	}
	start := time.Now()
	score := e.GetOpportunityScore(opp)
	metrics.RecordScoringLatency("score", msSince(start))
	metrics.RecordOpportunitiesScored(1)
	return score, nil
}

// Rank orders candidates for the user, best first. A nil list yields an
// empty result.
func (s *Service) Rank(ctx context.Context, userID string, opps []model.Opportunity) ([]model.ScoredOpportunity, error) {
	e, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	if opps == nil {
		metrics.RecordRankInvalidInput()
	}
	start := time.Now()
	ranked := e.GetPersonalizedOpportunities(ctx, opps)
	metrics.RecordScoringLatency("rank", msSince(start))
	metrics.RecordOpportunitiesScored(len(ranked))
	return ranked, nil
}

// Feed ranks the whole catalog for the user and returns the top limit
// entries. A limit <= 0 returns all.
func (s *Service) Feed(ctx context.Context, userID string, limit int) ([]types.FeedEntry, error) {
	e, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ranked := e.GetPersonalizedOpportunities(ctx, s.catalog.List(ctx))
	metrics.RecordScoringLatency("feed", msSince(start))
	metrics.RecordOpportunitiesScored(len(ranked))
	return types.NewFeed(ranked, limit), nil
}

// RecommendedCategories returns the user's top categories by summed action weight.
func (s *Service) RecommendedCategories(_ context.Context, userID string) ([]string, error) {
	e, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return e.GetRecommendedCategories(), nil
}

// Snapshot copies the user's state.
func (s *Service) Snapshot(_ context.Context, userID string) (personalization.Snapshot, error) {
	e, err := s.session(userID)
	if err != nil {
		return personalization.Snapshot{}, err
	}
	return e.Snapshot(), nil
}

// Restore replaces the user's state with snap.
func (s *Service) Restore(ctx context.Context, userID string, snap personalization.Snapshot) error {
	e, err := s.session(userID)
	if err != nil {
		return err
	}
	if err := e.Restore(snap); err != nil {
		metrics.RecordSnapshotRestore("invalid")
		s.logger.Warn(ctx, "snapshot rejected",
			logger.String("userID", userID),
			logger.Error(err),
		)
		return fmt.Errorf("restore %s: %w", userID, err)
	}
	metrics.RecordSnapshotRestore("ok")
	s.logger.Info(ctx, "snapshot restored",
		logger.String("userID", userID),
		logger.Int("preferences", len(snap.Preferences)),
		logger.Int("behaviors", len(snap.Behaviors)),
	)
	return nil
}

// DropSession forgets the user's state and the event ids applied to it. It
// reports whether a session existed.
func (s *Service) DropSession(ctx context.Context, userID string) bool {
	userID = strings.TrimSpace(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	us, ok := s.sessions[userID]
	if !ok {
		return false
	}
	s.releaseKeys(ctx, us)
	delete(s.sessions, userID)
	metrics.UpdateActiveSessions(len(s.sessions))
	s.logger.Info(ctx, "session dropped", logger.String("userID", userID))
	return true
}

// UpsertOpportunities adds or replaces catalog entries.
func (s *Service) UpsertOpportunities(ctx context.Context, opps []model.Opportunity) (int, error) {
	n, err := s.catalog.Upsert(ctx, opps...)
	if err != nil {
		return 0, fmt.Errorf("upsert opportunities: %w", err)
	}
	return n, nil
}

// Opportunity returns one catalog entry.
func (s *Service) Opportunity(ctx context.Context, id string) (model.Opportunity, error) {
	return s.catalog.Get(ctx, id)
}

// Opportunities returns the catalog in first-insertion order.
func (s *Service) Opportunities(ctx context.Context) []model.Opportunity {
	return s.catalog.List(ctx)
}

// DeleteOpportunity removes a catalog entry.
func (s *Service) DeleteOpportunity(ctx context.Context, id string) error {
	return s.catalog.Delete(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"sessions":        len(s.sessions),
		"opportunities":   s.catalog.Count(ctx),
		"dedupeKeys":      s.deduper.Size(),
		"dedupeSize":      s.dedupeSize,
		"catalogCapacity": s.catalogCapacity,
		"seedDefaults":    s.seed,
	}

	metrics.UpdateActiveSessions(len(s.sessions))
	metrics.UpdateDedupeSize(s.deduper.Size())
	return stats
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
