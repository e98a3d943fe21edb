// Package registry gives access to the link record store. The store is a
// generic CRUD resource named "urls": it offers no uniqueness or atomicity
// guarantees beyond a per-record replace, and reports failures as a bare
// boolean in its response envelope.
package registry

import (
	"context"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
)

// Store is the registry contract every core component depends on. Both the
// HTTP client in this package and the local GORM repository satisfy it.
type Store interface {
	// List fetches the full collection, optionally sorted ("-id" sorts by
	// id descending).
	List(ctx context.Context, sort string) ([]models.LinkRecord, error)

	// Get fetches one record by id. Returns apperrors.ErrNotFound when the
	// record does not exist.
	Get(ctx context.Context, id int64) (*models.LinkRecord, error)

	// Create inserts a new record and returns the assigned id.
	Create(ctx context.Context, rec *models.LinkRecord) (int64, error)

	// Update applies a partial field update. Keys use the wire names
	// ("clicks", "is_active", ...).
	Update(ctx context.Context, id int64, fields map[string]any) error

	// Delete removes one record by id.
	Delete(ctx context.Context, id int64) error
}
