// Package registrytest provides an in-memory registry.Store for tests.
package registrytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/repository"
)

// MemStore is an in-memory registry.Store. Individual operations can be
// forced to fail to exercise error paths.
type MemStore struct {
	mu      sync.Mutex
	records map[int64]models.LinkRecord
	nextID  int64

	FailList   bool
	FailGet    bool
	FailCreate bool
	FailUpdate bool
	FailDelete bool

	CreateCalls int
	UpdateCalls int
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[int64]models.LinkRecord), nextID: 1}
}

// Seed inserts a record as-is, assigning an id when it has none.
func (s *MemStore) Seed(rec models.LinkRecord) models.LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == 0 {
		rec.ID = s.nextID
		s.nextID++
	} else if rec.ID >= s.nextID {
		s.nextID = rec.ID + 1
	}
	s.records[rec.ID] = rec
	return rec
}

func (s *MemStore) List(ctx context.Context, sortKey string) ([]models.LinkRecord, error) {
	if s.FailList {
		return nil, apperrors.BackendError{Op: "list"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LinkRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if sortKey == "-id" {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (*models.LinkRecord, error) {
	if s.FailGet {
		return nil, apperrors.BackendError{Op: "get"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rec, nil
}

func (s *MemStore) Create(ctx context.Context, rec *models.LinkRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.FailCreate {
		return 0, apperrors.BackendError{Op: "create"}
	}
	stored := *rec
	stored.ID = s.nextID
	s.nextID++
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.records[stored.ID] = stored
	return stored.ID, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.FailUpdate {
		return apperrors.BackendError{Op: "update"}
	}
	rec, ok := s.records[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	normalized, err := repository.NormalizeFields(fields)
	if err != nil {
		return err
	}
	for key, value := range normalized {
		switch key {
		case "original_url":
			rec.OriginalURL = value.(string)
		case "short_code":
			rec.ShortCode = value.(string)
		case "clicks":
			rec.Clicks = value.(int64)
		case "is_custom":
			rec.IsCustom = value.(bool)
		case "password":
			rec.Password = value.(string)
		case "expires_at":
			if value == nil {
				rec.ExpiresAt = nil
			} else {
				t := value.(time.Time)
				rec.ExpiresAt = &t
			}
		case "is_active":
			rec.IsActive = value.(bool)
		}
	}
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	if s.FailDelete {
		return apperrors.BackendError{Op: "delete"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.records, id)
	return nil
}
