package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
)

// maxGenerationAttempts bounds the generate-and-check loop. Ten attempts
// against a 62^6 space keeps exhaustion astronomically rare unless the
// collision checker itself is misbehaving.
const maxGenerationAttempts = 10

// customCodePattern is the accepted custom short code charset.
var customCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrCodeExhausted is returned when every generation attempt collided.
var ErrCodeExhausted = apperrors.ConflictError{Reason: "unable to allocate a unique short code"}

// CreateLinkInput carries the creation parameters. CustomCode, Password and
// ExpiresInDays are optional (zero value means absent).
type CreateLinkInput struct {
	OriginalURL   string
	CustomCode    string
	Password      string
	ExpiresInDays int
}

// codeChecker is the collision check the creation path depends on.
type codeChecker interface {
	Exists(ctx context.Context, code string) bool
}

// LinkService orchestrates link creation and the owner-facing mutations
// (status toggle, delete) against the registry.
type LinkService struct {
	store   registry.Store
	checker codeChecker
	now     func() time.Time
}

// NewLinkService creates and returns a new LinkService.
func NewLinkService(store registry.Store) *LinkService {
	return &LinkService{
		store:   store,
		checker: NewCollisionChecker(store),
		now:     time.Now,
	}
}

// CreateLink validates the input, allocates a short code and persists the
// new record. Validation and conflict failures happen before any registry
// write.
func (s *LinkService) CreateLink(ctx context.Context, in CreateLinkInput) (*models.LinkRecord, error) {
	originalURL, err := normalizeURL(in.OriginalURL)
	if err != nil {
		return nil, err
	}

	custom := strings.TrimSpace(in.CustomCode)
	var shortCode string
	if custom != "" {
		if !customCodePattern.MatchString(custom) {
			return nil, apperrors.ValidationError{
				Field:  "custom_code",
				Reason: "may only contain letters, numbers, hyphens and underscores",
			}
		}
		if len(custom) < 3 || len(custom) > 50 {
			return nil, apperrors.ValidationError{
				Field:  "custom_code",
				Reason: "must be between 3 and 50 characters",
			}
		}
		if s.checker.Exists(ctx, custom) {
			return nil, apperrors.ConflictError{Reason: "this custom code is already taken"}
		}
		shortCode = custom
	} else {
		for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
			code, err := GenerateShortCode(CodeLength)
			if err != nil {
				return nil, err
			}
			if !s.checker.Exists(ctx, code) {
				shortCode = code
				break
			}
		}
		if shortCode == "" {
			return nil, ErrCodeExhausted
		}
	}

	rec := &models.LinkRecord{
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		Clicks:      0,
		IsCustom:    custom != "",
		Password:    in.Password,
		IsActive:    true,
	}
	if in.ExpiresInDays > 0 {
		expiry := s.now().AddDate(0, 0, in.ExpiresInDays)
		rec.ExpiresAt = &expiry
	}

	id, err := s.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return rec, nil
}

// GetLinkByShortCode retrieves a link case-insensitively by its short code.
func (s *LinkService) GetLinkByShortCode(ctx context.Context, code string) (*models.LinkRecord, error) {
	return findByShortCode(ctx, s.store, code)
}

// ToggleStatus activates or pauses a link. Resolution denies paused links
// exactly as it denies missing ones.
func (s *LinkService) ToggleStatus(ctx context.Context, id int64, active bool) error {
	return s.store.Update(ctx, id, map[string]any{"is_active": active})
}

// DeleteLink removes a link permanently.
func (s *LinkService) DeleteLink(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// normalizeURL applies the destination URL rules: non-empty, defaulted to
// https when no scheme is present, and parseable as an absolute http/https
// URL.
func normalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.ValidationError{Field: "original_url", Reason: "must not be empty"}
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperrors.ValidationError{Field: "original_url", Reason: "must be a valid http or https URL"}
	}
	return trimmed, nil
}
