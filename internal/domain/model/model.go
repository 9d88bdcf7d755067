// Package model contains domain models passed between layers.
package model

import "time"

// Preference is the user's affinity for one opportunity category.
type Preference struct {
	Category    string    `json:"category"`
	Weight      float64   `json:"weight"` // expected in [0, 1]; not enforced here
	LastUpdated time.Time `json:"last_updated"`
}

// BehaviorEvent records one user action on one opportunity. Events are
// immutable once created.
type BehaviorEvent struct {
	ID            string    `json:"id"`
	OpportunityID string    `json:"opportunity_id"`
	Action        Action    `json:"action"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	Field         string    `json:"field"`
	Timestamp     time.Time `json:"timestamp"`
}

// Opportunity is a listing candidate for ranking. Only ID, Category,
// Location, Field and PostedDate take part in scoring.
type Opportunity struct {
	ID           string    `json:"id" validate:"required"`
	Title        string    `json:"title,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Field        string    `json:"field"`
	PostedDate   time.Time `json:"posted_date"`
}

// Factors is the per-factor breakdown of an opportunity score. Each value
// lies in [0, 1].
type Factors struct {
	CategoryMatch float64 `json:"category_match"`
	LocationMatch float64 `json:"location_match"`
	FieldMatch    float64 `json:"field_match"`
	Recency       float64 `json:"recency"`
	Popularity    float64 `json:"popularity"`
}

// OpportunityScore is the transient result of scoring one opportunity.
type OpportunityScore struct {
	OpportunityID string  `json:"opportunity_id"`
	Score         float64 `json:"score"`
	Factors       Factors `json:"factors"`
}

// ScoredOpportunity is a candidate with its full score attached.
type ScoredOpportunity struct {
	Opportunity
	Score OpportunityScore `json:"score"`
}
