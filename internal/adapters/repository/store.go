// Package repository holds the opportunity catalog the feed ranks.
package repository

import (
	"context"

	"github.com/okian/ladder/internal/domain/model"
)

// Catalog provides read/write access to known opportunities.
type Catalog interface {
	// Upsert inserts or replaces opportunities by ID and returns how many
	// were written. Nothing is written if any opportunity is invalid.
	Upsert(ctx context.Context, opps ...model.Opportunity) (int, error)

	// Get returns the opportunity with id.
	// Returns ErrNotFound if the opportunity is unknown.
	Get(ctx context.Context, id string) (model.Opportunity, error)

	// Delete removes the opportunity with id.
	// Returns ErrNotFound if the opportunity is unknown.
	Delete(ctx context.Context, id string) error

	// List returns all opportunities in first-insertion order.
	List(ctx context.Context) []model.Opportunity

	// Count returns the number of opportunities held.
	Count(ctx context.Context) int
}
