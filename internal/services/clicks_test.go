package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry/registrytest"
)

func TestClickTrackerIncrement(t *testing.T) {
	store := registrytest.NewMemStore()
	seeded := store.Seed(models.LinkRecord{ShortCode: "abc123", OriginalURL: "https://example.com", IsActive: true, Clicks: 4})
	tracker := NewClickTracker(store)

	if err := tracker.Increment(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	rec, err := store.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Clicks != 5 {
		t.Errorf("clicks = %d, want 5", rec.Clicks)
	}
	// Only the counter changed.
	if rec.ShortCode != "abc123" || !rec.IsActive || rec.OriginalURL != "https://example.com" {
		t.Errorf("increment touched other fields: %+v", rec)
	}
}

func TestClickTrackerMissingRecord(t *testing.T) {
	store := registrytest.NewMemStore()
	tracker := NewClickTracker(store)

	if err := tracker.Increment(context.Background(), 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClickTrackerBackendFailure(t *testing.T) {
	store := registrytest.NewMemStore()
	seeded := store.Seed(models.LinkRecord{ShortCode: "abc123", OriginalURL: "https://example.com", IsActive: true})
	store.FailGet = true
	tracker := NewClickTracker(store)

	if err := tracker.Increment(context.Background(), seeded.ID); !apperrors.IsBackend(err) {
		t.Errorf("expected BackendError, got %v", err)
	}
}
