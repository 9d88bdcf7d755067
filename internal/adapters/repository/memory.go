package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/pkg/metrics"
)

// MemoryCatalog is an in-memory Catalog. Reads return copies.
type MemoryCatalog struct {
	mu       sync.RWMutex
	items    map[string]int // id -> position in order
	order    []model.Opportunity
	capacity int
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog(opts ...Option) *MemoryCatalog {
	c := &MemoryCatalog{items: make(map[string]int)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upsert implements Catalog.
func (c *MemoryCatalog) Upsert(_ context.Context, opps ...model.Opportunity) (int, error) {
	start := time.Now()
	for i, o := range opps {
		if strings.TrimSpace(o.ID) == "" {
			metrics.RecordErrorByComponent("catalog", "invalid")
			return 0, fmt.Errorf("%w: item %d has no id", ErrInvalidOpportunity, i)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 {
		added := 0
		fresh := make(map[string]struct{})
		for _, o := range opps {
			if _, ok := c.items[o.ID]; ok {
				continue
			}
			if _, ok := fresh[o.ID]; ok {
				continue
			}
			fresh[o.ID] = struct{}{}
			added++
		}
		if len(c.order)+added > c.capacity {
			metrics.RecordErrorByComponent("catalog", "full")
			return 0, fmt.Errorf("%w: capacity %d", ErrCatalogFull, c.capacity)
		}
	}

	for _, o := range opps {
		if i, ok := c.items[o.ID]; ok {
			c.order[i] = o
			continue
		}
		c.items[o.ID] = len(c.order)
		c.order = append(c.order, o)
	}

	metrics.RecordCatalogUpdateLatency(msSince(start))
	metrics.UpdateCatalogSize(len(c.order))
	return len(opps), nil
}

// Get implements Catalog.
func (c *MemoryCatalog) Get(_ context.Context, id string) (model.Opportunity, error) {
	start := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.items[id]
	metrics.RecordCatalogQueryLatency(msSince(start))
	if !ok {
		metrics.RecordErrorByComponent("catalog", "not_found")
		return model.Opportunity{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.order[i], nil
}

// Delete implements Catalog.
func (c *MemoryCatalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.items[id]
	if !ok {
		metrics.RecordErrorByComponent("catalog", "not_found")
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.order = append(c.order[:i], c.order[i+1:]...)
	delete(c.items, id)
	for j := i; j < len(c.order); j++ {
		c.items[c.order[j].ID] = j
	}
	metrics.UpdateCatalogSize(len(c.order))
	return nil
}

// List implements Catalog.
func (c *MemoryCatalog) List(_ context.Context) []model.Opportunity {
	start := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Opportunity, len(c.order))
	copy(out, c.order)
	metrics.RecordCatalogQueryLatency(msSince(start))
	return out
}

// Count implements Catalog.
func (c *MemoryCatalog) Count(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
