// Package services contains the business logic layer for the link shortener.
package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
)

// charset is the alphabet used for generated short codes: 62 characters,
// so a 6-character code has 62^6 (~56 billion) possible values.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of generated short codes.
const CodeLength = 6

// GenerateShortCode produces a random code of the given length drawn
// uniformly from the charset. Uniqueness is the caller's responsibility.
func GenerateShortCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CollisionChecker tests whether a short code is already in use by scanning
// the full record set. The registry enforces no uniqueness itself, so this
// scan is the only check there is; two concurrent creations can still both
// pass it before either writes.
type CollisionChecker struct {
	store registry.Store
}

// NewCollisionChecker creates and returns a new CollisionChecker.
func NewCollisionChecker(store registry.Store) *CollisionChecker {
	return &CollisionChecker{store: store}
}

// Exists reports whether code matches an existing short code,
// case-insensitively. It fails open: a registry read error is treated as
// "does not exist", trading false negatives for availability.
func (c *CollisionChecker) Exists(ctx context.Context, code string) bool {
	records, err := c.store.List(ctx, "")
	if err != nil {
		log.Printf("WARNING: collision check could not read the registry, assuming code %q is free: %v", code, err)
		return false
	}
	for _, rec := range records {
		if strings.EqualFold(rec.ShortCode, code) {
			return true
		}
	}
	return false
}

// findByShortCode scans the full collection for a case-insensitive short
// code match. Returns apperrors.ErrNotFound when nothing matches.
func findByShortCode(ctx context.Context, store registry.Store, code string) (*models.LinkRecord, error) {
	records, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range records {
		if strings.EqualFold(records[i].ShortCode, code) {
			return &records[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}
