package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
)

// GormLinkRepository implements registry.Store on top of GORM. It backs the
// local registry endpoints and can be wired directly into the services when
// no remote registry is configured.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates and returns a new GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// allowed partial-update columns, by wire name.
var updatableFields = map[string]bool{
	"original_url": true,
	"short_code":   true,
	"clicks":       true,
	"is_custom":    true,
	"password":     true,
	"expires_at":   true,
	"is_active":    true,
}

func (r *GormLinkRepository) List(ctx context.Context, sort string) ([]models.LinkRecord, error) {
	q := r.db.WithContext(ctx)
	switch sort {
	case "-id":
		q = q.Order("id DESC")
	case "id":
		q = q.Order("id ASC")
	}
	var records []models.LinkRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return records, nil
}

func (r *GormLinkRepository) Get(ctx context.Context, id int64) (*models.LinkRecord, error) {
	var rec models.LinkRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link %d: %w", id, err)
	}
	return &rec, nil
}

func (r *GormLinkRepository) Create(ctx context.Context, rec *models.LinkRecord) (int64, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return 0, fmt.Errorf("failed to create link: %w", err)
	}
	return rec.ID, nil
}

func (r *GormLinkRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	updates, err := NormalizeFields(fields)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.LinkRecord{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update link %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *GormLinkRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.LinkRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete link %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// NormalizeFields filters a partial update down to the known columns and
// coerces loosely-typed wire values (0/1 booleans, string numbers, naive
// timestamps) into their storage types.
func NormalizeFields(fields map[string]any) (map[string]any, error) {
	updates := make(map[string]any, len(fields))
	for key, value := range fields {
		if !updatableFields[key] {
			continue
		}
		switch key {
		case "is_active", "is_custom":
			b, err := coerceBool(value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			updates[key] = b
		case "clicks":
			n, err := coerceInt(value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			updates[key] = n
		case "expires_at":
			if value == nil {
				updates[key] = nil
				continue
			}
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field expires_at: expected string, got %T", value)
			}
			t, err := models.ParseWireTime(s)
			if err != nil {
				return nil, fmt.Errorf("field expires_at: %w", err)
			}
			updates[key] = t
		default:
			updates[key] = value
		}
	}
	return updates, nil
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case string:
		switch strings.ToLower(v) {
		case "1", "true":
			return true, nil
		case "0", "false", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot interpret %v as boolean", value)
}

func coerceInt(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("cannot interpret %q as integer", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot interpret %v as integer", value)
}
