// Package types contains common types used across the application
package types

import "github.com/okian/ladder/internal/domain/model"

// FeedEntry is one position in a user's personalized feed.
type FeedEntry struct {
	Rank int `json:"rank"`
	model.ScoredOpportunity
}

// NewFeed numbers ranked opportunities from 1 and keeps at most limit of
// them. A limit <= 0 keeps all.
func NewFeed(ranked []model.ScoredOpportunity, limit int) []FeedEntry {
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	feed := make([]FeedEntry, limit)
	for i := range limit {
		feed[i] = FeedEntry{Rank: i + 1, ScoredOpportunity: ranked[i]}
	}
	return feed
}
