// Package behavior records user actions on opportunities.
package behavior

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ladder/internal/domain/model"
)

// Seed history offsets, most recent first.
const (
	seedRecentOffset = 30 * time.Minute
	seedMiddleOffset = 2 * time.Hour
	seedOldestOffset = 24 * time.Hour
)

// DefaultEvents returns the seed history relative to now, most recent first.
func DefaultEvents(now time.Time) []model.BehaviorEvent {
	return []model.BehaviorEvent{
		{
			ID:            uuid.NewString(),
			OpportunityID: "1",
			Action:        model.ActionView,
			Category:      "Internships",
			Location:      "Athens, Greece",
			Field:         "Technology",
			Timestamp:     now.Add(-seedRecentOffset),
		},
		{
			ID:            uuid.NewString(),
			OpportunityID: "2",
			Action:        model.ActionLike,
			Category:      "Hackathons",
			Location:      "Thessaloniki, Greece",
			Field:         "Technology",
			Timestamp:     now.Add(-seedMiddleOffset),
		},
		{
			ID:            uuid.NewString(),
			OpportunityID: "3",
			Action:        model.ActionApply,
			Category:      "Internships",
			Location:      "Athens, Greece",
			Field:         "Business",
			Timestamp:     now.Add(-seedOldestOffset),
		},
	}
}

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSeed controls whether the log starts with DefaultEvents.
func WithSeed(seed bool) Option {
	return func(l *Log) {
		l.seed = seed
	}
}

// Log is an append-only history of behavior events. Events are stored
// oldest first and read back most recent first. It is not safe for
// concurrent use; callers serialize access.
type Log struct {
	events    []model.BehaviorEvent
	locations map[string]struct{}
	fields    map[string]struct{}
	now       func() time.Time
	seed      bool
}

// NewLog creates a Log, seeded with DefaultEvents unless WithSeed(false).
func NewLog(opts ...Option) *Log {
	l := &Log{
		locations: make(map[string]struct{}),
		fields:    make(map[string]struct{}),
		now:       time.Now,
		seed:      true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.seed {
		l.Replace(DefaultEvents(l.now()))
	}
	return l
}

// Track creates an event stamped now and places it at the front of the log.
func (l *Log) Track(opportunityID string, action model.Action, category, location, field string) model.BehaviorEvent {
	e := model.BehaviorEvent{
		ID:            uuid.NewString(),
		OpportunityID: opportunityID,
		Action:        action,
		Category:      category,
		Location:      location,
		Field:         field,
		Timestamp:     l.now(),
	}
	l.push(e)
	return e
}

func (l *Log) push(e model.BehaviorEvent) {
	l.events = append(l.events, e)
	l.locations[e.Location] = struct{}{}
	l.fields[e.Field] = struct{}{}
}

// Events returns a copy of the log, most recent first.
func (l *Log) Events() []model.BehaviorEvent {
	out := make([]model.BehaviorEvent, len(l.events))
	for i, e := range l.events {
		out[len(l.events)-1-i] = e
	}
	return out
}

// Len returns the number of events recorded.
func (l *Log) Len() int { return len(l.events) }

// HasLocation reports whether any event was recorded at location.
func (l *Log) HasLocation(location string) bool {
	_, ok := l.locations[location]
	return ok
}

// HasField reports whether any event was recorded in field.
func (l *Log) HasField(field string) bool {
	_, ok := l.fields[field]
	return ok
}

// Locations returns the distinct locations seen, sorted.
func (l *Log) Locations() []string { return sortedKeys(l.locations) }

// Fields returns the distinct fields seen, sorted.
func (l *Log) Fields() []string { return sortedKeys(l.fields) }

// RecommendedCategories sums action weights per category across the whole
// log and returns up to limit category names, heaviest first. Ties keep the
// order in which categories first appear in the most-recent-first log.
func (l *Log) RecommendedCategories(limit int) []string {
	type total struct {
		category string
		weight   float64
	}
	var totals []total
	pos := make(map[string]int)
	for i := len(l.events) - 1; i >= 0; i-- {
		e := l.events[i]
		j, ok := pos[e.Category]
		if !ok {
			j = len(totals)
			pos[e.Category] = j
			totals = append(totals, total{category: e.Category})
		}
		totals[j].weight += e.Action.Weight()
	}

	sort.SliceStable(totals, func(i, j int) bool { return totals[i].weight > totals[j].weight })

	if limit >= 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	out := make([]string, len(totals))
	for i, t := range totals {
		out[i] = t.category
	}
	return out
}

// Replace discards the log and loads events given most recent first.
func (l *Log) Replace(events []model.BehaviorEvent) {
	l.events = make([]model.BehaviorEvent, 0, len(events))
	l.locations = make(map[string]struct{})
	l.fields = make(map[string]struct{})
	for i := len(events) - 1; i >= 0; i-- {
		l.push(events[i])
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
