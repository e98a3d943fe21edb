package listsync

import (
	"context"
	"testing"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry/registrytest"
)

func seededStore() (*registrytest.MemStore, []models.LinkRecord) {
	store := registrytest.NewMemStore()
	recs := []models.LinkRecord{
		store.Seed(models.LinkRecord{ShortCode: "alpha1", OriginalURL: "https://example.com/first", IsActive: true, Clicks: 10}),
		store.Seed(models.LinkRecord{ShortCode: "beta22", OriginalURL: "https://other.example/second", IsActive: false, Clicks: 3}),
		store.Seed(models.LinkRecord{ShortCode: "my-own", OriginalURL: "https://example.com/third", IsActive: true, IsCustom: true, Password: "p", Clicks: 7}),
	}
	return store, recs
}

func TestRefreshReplacesCache(t *testing.T) {
	store, _ := seededStore()
	s := NewSynchronizer(store, time.Second)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := len(s.Links(FilterAll, "")); got != 3 {
		t.Fatalf("cached %d links, want 3", got)
	}

	// A deletion disappears on the next refresh; no incremental diffing.
	if err := store.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := len(s.Links(FilterAll, "")); got != 2 {
		t.Errorf("cached %d links after delete, want 2", got)
	}
}

func TestRefreshKeepsLastKnownGoodOnFailure(t *testing.T) {
	store, _ := seededStore()
	s := NewSynchronizer(store, time.Second)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	store.FailList = true
	if err := s.Refresh(context.Background()); err == nil {
		t.Error("expected refresh error")
	}
	if got := len(s.Links(FilterAll, "")); got != 3 {
		t.Errorf("cache lost on failed refresh: %d links, want 3", got)
	}
}

func TestLinksFilterAndSearch(t *testing.T) {
	store, _ := seededStore()
	s := NewSynchronizer(store, time.Second)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		query  string
		want   []string
	}{
		{"all", FilterAll, "", []string{"my-own", "beta22", "alpha1"}},
		{"active", FilterActive, "", []string{"my-own", "alpha1"}},
		{"inactive", FilterInactive, "", []string{"beta22"}},
		{"custom", FilterCustom, "", []string{"my-own"}},
		{"search by code", FilterAll, "ALPHA", []string{"alpha1"}},
		{"search by url", FilterAll, "other.example", []string{"beta22"}},
		{"search after status filter", FilterActive, "example.com", []string{"my-own", "alpha1"}},
		{"search no match", FilterAll, "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := s.Links(tt.filter, tt.query)
			if len(links) != len(tt.want) {
				t.Fatalf("got %d links, want %d", len(links), len(tt.want))
			}
			for i, code := range tt.want {
				if links[i].ShortCode != code {
					t.Errorf("links[%d] = %q, want %q", i, links[i].ShortCode, code)
				}
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"active", FilterActive},
		{"INACTIVE", FilterInactive},
		{"custom", FilterCustom},
		{"all", FilterAll},
		{"", FilterAll},
		{"bogus", FilterAll},
	}
	for _, tt := range tests {
		if got := ParseFilter(tt.in); got != tt.want {
			t.Errorf("ParseFilter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatsAggregates(t *testing.T) {
	store, _ := seededStore()
	s := NewSynchronizer(store, time.Second)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	stats := s.Stats()
	if stats.TotalLinks != 3 {
		t.Errorf("TotalLinks = %d, want 3", stats.TotalLinks)
	}
	if stats.TotalClicks != 20 {
		t.Errorf("TotalClicks = %d, want 20", stats.TotalClicks)
	}
	if stats.ActiveLinks != 2 || stats.CustomLinks != 1 || stats.ProtectedLinks != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.AverageClicks != 6 {
		t.Errorf("AverageClicks = %d, want 6", stats.AverageClicks)
	}
	if len(stats.TopLinks) != 3 || stats.TopLinks[0].ShortCode != "alpha1" {
		t.Errorf("unexpected top links: %+v", stats.TopLinks)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store, _ := seededStore()
	s := NewSynchronizer(store, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Let at least one poll happen, then tear down.
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("synchronizer did not stop after cancellation")
	}

	if got := len(s.Links(FilterAll, "")); got != 3 {
		t.Errorf("cache not populated by polling: %d links", got)
	}
}
