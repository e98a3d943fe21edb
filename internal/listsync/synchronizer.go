// Package listsync keeps a local view of the link collection consistent
// with the registry by polling it on an interval.
package listsync

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
)

// Filter selects a status-based subset of the cached links.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterActive   Filter = "active"
	FilterInactive Filter = "inactive"
	FilterCustom   Filter = "custom"
)

// ParseFilter maps a query-string value to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(s)) {
	case FilterActive:
		return FilterActive
	case FilterInactive:
		return FilterInactive
	case FilterCustom:
		return FilterCustom
	default:
		return FilterAll
	}
}

// Synchronizer owns a cached copy of all link records. Each refresh replaces
// the cache wholesale; there is no incremental diffing. The cache is only
// mutated by the synchronizer itself, under its own lock.
type Synchronizer struct {
	store    registry.Store
	interval time.Duration

	mu    sync.RWMutex
	links []models.LinkRecord
}

// NewSynchronizer creates and returns a new Synchronizer polling at the
// given interval.
func NewSynchronizer(store registry.Store, interval time.Duration) *Synchronizer {
	return &Synchronizer{store: store, interval: interval}
}

// Run refreshes immediately, then keeps polling until ctx is cancelled. The
// polling loop is owned by the caller's context rather than a free-floating
// timer, so teardown is deterministic.
func (s *Synchronizer) Run(ctx context.Context) {
	log.Printf("[SYNC] Starting link list synchronizer with interval of %v...", s.interval)
	if err := s.Refresh(ctx); err != nil {
		log.Printf("[SYNC] initial refresh failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[SYNC] Synchronizer stopped.")
			return
		case <-ticker.C:
			// A transient poll failure keeps the last-known-good cache;
			// Refresh already logged it.
			_ = s.Refresh(ctx)
		}
	}
}

// Refresh replaces the cache with the current registry state. On failure the
// previous snapshot is kept and the error is both logged and returned, so
// on-demand callers can surface it while the poll loop swallows it.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	records, err := s.store.List(ctx, "-id")
	if err != nil {
		log.Printf("[SYNC] refresh failed, keeping previous snapshot: %v", err)
		return err
	}

	s.mu.Lock()
	s.links = records
	s.mu.Unlock()
	return nil
}

// Links returns the cached records matching the status filter and, applied
// after it, a case-insensitive substring search over the original URL and
// the short code.
func (s *Synchronizer) Links(filter Filter, query string) []models.LinkRecord {
	s.mu.RLock()
	snapshot := s.links
	s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]models.LinkRecord, 0, len(snapshot))
	for _, rec := range snapshot {
		switch filter {
		case FilterActive:
			if !rec.IsActive {
				continue
			}
		case FilterInactive:
			if rec.IsActive {
				continue
			}
		case FilterCustom:
			if !rec.IsCustom {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.OriginalURL), query) &&
			!strings.Contains(strings.ToLower(rec.ShortCode), query) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

// Stats is an aggregate view over the cached collection.
type Stats struct {
	TotalLinks     int                 `json:"total_links"`
	TotalClicks    int64               `json:"total_clicks"`
	ActiveLinks    int                 `json:"active_links"`
	CustomLinks    int                 `json:"custom_links"`
	ProtectedLinks int                 `json:"protected_links"`
	AverageClicks  int64               `json:"average_clicks"`
	TopLinks       []models.LinkRecord `json:"top_links"`
}

// Stats computes dashboard aggregates from the current snapshot, including
// the five most-clicked links.
func (s *Synchronizer) Stats() Stats {
	s.mu.RLock()
	snapshot := s.links
	s.mu.RUnlock()

	stats := Stats{TotalLinks: len(snapshot)}
	for _, rec := range snapshot {
		stats.TotalClicks += rec.Clicks
		if rec.IsActive {
			stats.ActiveLinks++
		}
		if rec.IsCustom {
			stats.CustomLinks++
		}
		if rec.Password != "" {
			stats.ProtectedLinks++
		}
	}
	if stats.TotalLinks > 0 {
		stats.AverageClicks = stats.TotalClicks / int64(stats.TotalLinks)
	}

	top := make([]models.LinkRecord, len(snapshot))
	copy(top, snapshot)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Clicks > top[j].Clicks })
	if len(top) > 5 {
		top = top[:5]
	}
	stats.TopLinks = top
	return stats
}
