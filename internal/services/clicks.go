package services

import (
	"context"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
)

// ClickTracker bumps the click counter of a record. The increment is a read
// followed by a partial write with no lock in between, so concurrent
// increments on the same record can lose updates; the counter is
// best-effort, not exact.
type ClickTracker struct {
	store registry.Store
}

// NewClickTracker creates and returns a new ClickTracker.
func NewClickTracker(store registry.Store) *ClickTracker {
	return &ClickTracker{store: store}
}

// Increment adds one click to the record with the given id.
func (t *ClickTracker) Increment(ctx context.Context, id int64) error {
	rec, err := t.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return t.store.Update(ctx, id, map[string]any{"clicks": rec.Clicks + 1})
}
