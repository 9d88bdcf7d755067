// Package preference holds a user's per-category affinity weights.
package preference

import (
	"time"

	"github.com/okian/ladder/internal/domain/model"
)

// Seed categories and weights used to avoid a cold start.
var defaultWeights = []struct {
	category string
	weight   float64
}{
	{"Internships", 0.8},
	{"Hackathons", 0.6},
	{"Scholarships", 0.4},
	{"Volunteering", 0.3},
}

// DefaultPreferences returns the seed preferences stamped at now.
func DefaultPreferences(now time.Time) []model.Preference {
	out := make([]model.Preference, len(defaultWeights))
	for i, d := range defaultWeights {
		out[i] = model.Preference{Category: d.category, Weight: d.weight, LastUpdated: now}
	}
	return out
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithClock overrides the time source used for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeed controls whether the store starts with DefaultPreferences.
func WithSeed(seed bool) Option {
	return func(s *Store) {
		s.seed = seed
	}
}

// Store is an ordered, upsert-only collection of preferences keyed by
// category. It is not safe for concurrent use; callers serialize access.
type Store struct {
	entries []model.Preference
	index   map[string]int // category -> position in entries
	now     func() time.Time
	seed    bool
}

// NewStore creates a Store, seeded with the default preferences unless
// WithSeed(false) is given.
func NewStore(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		now:   time.Now,
		seed:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		for _, p := range DefaultPreferences(s.now()) {
			s.put(p)
		}
	}
	return s
}

// Set replaces the weight for category, refreshing LastUpdated, or appends a
// new entry if the category is unknown. The weight is stored as given.
func (s *Store) Set(category string, weight float64) model.Preference {
	p := model.Preference{Category: category, Weight: weight, LastUpdated: s.now()}
	s.put(p)
	return p
}

func (s *Store) put(p model.Preference) {
	if i, ok := s.index[p.Category]; ok {
		s.entries[i] = p
		return
	}
	s.index[p.Category] = len(s.entries)
	s.entries = append(s.entries, p)
}

// Weight returns the weight for category and whether it exists.
func (s *Store) Weight(category string) (float64, bool) {
	i, ok := s.index[category]
	if !ok {
		return 0, false
	}
	return s.entries[i].Weight, true
}

// List returns a copy of all preferences in insertion order.
func (s *Store) List() []model.Preference {
	out := make([]model.Preference, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of categories held.
func (s *Store) Len() int { return len(s.entries) }

// Replace discards the current contents and loads prefs in order. Later
// duplicates of a category overwrite earlier ones in place.
func (s *Store) Replace(prefs []model.Preference) {
	s.entries = s.entries[:0]
	s.index = make(map[string]int, len(prefs))
	for _, p := range prefs {
		s.put(p)
	}
}
