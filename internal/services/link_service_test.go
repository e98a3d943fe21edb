package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry/registrytest"
)

// fixedChecker always answers the same, regardless of code.
type fixedChecker bool

func (f fixedChecker) Exists(ctx context.Context, code string) bool { return bool(f) }

func newTestService(store registry.Store, checker codeChecker) *LinkService {
	return &LinkService{
		store:   store,
		checker: checker,
		now:     func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestCreateLinkGeneratesValidCode(t *testing.T) {
	store := registrytest.NewMemStore()
	svc := NewLinkService(store)

	link, err := svc.CreateLink(context.Background(), CreateLinkInput{OriginalURL: "https://example.com/page"})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	if !regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`).MatchString(link.ShortCode) {
		t.Errorf("short code %q does not match the accepted pattern", link.ShortCode)
	}
	if len(link.ShortCode) != CodeLength {
		t.Errorf("generated code length = %d, want %d", len(link.ShortCode), CodeLength)
	}
	if link.ID == 0 {
		t.Error("expected a registry-assigned id")
	}
	if !link.IsActive || link.IsCustom || link.Clicks != 0 {
		t.Errorf("unexpected new record state: %+v", link)
	}
}

func TestCreateLinkDefaultsScheme(t *testing.T) {
	store := registrytest.NewMemStore()
	svc := NewLinkService(store)

	link, err := svc.CreateLink(context.Background(), CreateLinkInput{OriginalURL: "example.com/a"})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if link.OriginalURL != "https://example.com/a" {
		t.Errorf("OriginalURL = %q, want https:// prefix applied", link.OriginalURL)
	}
}

func TestCreateLinkValidationRejectsWithoutWrites(t *testing.T) {
	tests := []struct {
		name  string
		input CreateLinkInput
	}{
		{"empty URL", CreateLinkInput{OriginalURL: ""}},
		{"whitespace URL", CreateLinkInput{OriginalURL: "   "}},
		{"unparseable URL", CreateLinkInput{OriginalURL: "https://"}},
		{"custom code too short", CreateLinkInput{OriginalURL: "https://example.com", CustomCode: "ab"}},
		{"custom code too long", CreateLinkInput{OriginalURL: "https://example.com", CustomCode: strings.Repeat("a", 51)}},
		{"custom code bad charset", CreateLinkInput{OriginalURL: "https://example.com", CustomCode: "bad code!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := registrytest.NewMemStore()
			svc := NewLinkService(store)

			_, err := svc.CreateLink(context.Background(), tt.input)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if store.CreateCalls != 0 {
				t.Errorf("validation failure wrote to the registry (%d create calls)", store.CreateCalls)
			}
		})
	}
}

func TestCreateLinkCustomCodeTaken(t *testing.T) {
	store := registrytest.NewMemStore()
	store.Seed(models.LinkRecord{ShortCode: "taken1", OriginalURL: "https://a.example", IsActive: true})
	svc := NewLinkService(store)

	// Case differs; the collision check is case-insensitive.
	_, err := svc.CreateLink(context.Background(), CreateLinkInput{
		OriginalURL: "https://example.com",
		CustomCode:  "TAKEN1",
	})
	if !apperrors.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if store.CreateCalls != 0 {
		t.Error("conflict wrote to the registry")
	}
}

func TestCreateLinkGenerationExhausted(t *testing.T) {
	store := registrytest.NewMemStore()
	svc := newTestService(store, fixedChecker(true))

	_, err := svc.CreateLink(context.Background(), CreateLinkInput{OriginalURL: "https://example.com"})
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
	if store.CreateCalls != 0 {
		t.Error("exhausted generation wrote to the registry")
	}
}

func TestCreateLinkCustomCodeStored(t *testing.T) {
	store := registrytest.NewMemStore()
	svc := NewLinkService(store)

	link, err := svc.CreateLink(context.Background(), CreateLinkInput{
		OriginalURL:   "https://example.com",
		CustomCode:    "my-link",
		Password:      "hunter2",
		ExpiresInDays: 7,
	})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if link.ShortCode != "my-link" || !link.IsCustom {
		t.Errorf("custom code not honored: %+v", link)
	}
	if link.Password != "hunter2" {
		t.Errorf("password not stored: %+v", link)
	}
	if link.ExpiresAt == nil {
		t.Fatal("ExpiresAt not set")
	}
	if days := int(time.Until(*link.ExpiresAt).Hours() / 24); days < 6 || days > 7 {
		t.Errorf("ExpiresAt roughly 7 days out, got %v", link.ExpiresAt)
	}
}

func TestCreateLinkDistinctCodes(t *testing.T) {
	store := registrytest.NewMemStore()
	svc := NewLinkService(store)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		link, err := svc.CreateLink(context.Background(), CreateLinkInput{OriginalURL: "https://example.com"})
		if err != nil {
			t.Fatalf("CreateLink failed: %v", err)
		}
		key := link.ShortCode
		if seen[key] {
			t.Fatalf("duplicate short code %q", key)
		}
		seen[key] = true
	}
}

func TestGetLinkByShortCodeCaseInsensitive(t *testing.T) {
	store := registrytest.NewMemStore()
	seeded := store.Seed(models.LinkRecord{ShortCode: "AbC123", OriginalURL: "https://example.com", IsActive: true})
	svc := NewLinkService(store)

	link, err := svc.GetLinkByShortCode(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if link.ID != seeded.ID {
		t.Errorf("resolved wrong record: %+v", link)
	}

	if _, err := svc.GetLinkByShortCode(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleStatusAndDelete(t *testing.T) {
	store := registrytest.NewMemStore()
	seeded := store.Seed(models.LinkRecord{ShortCode: "abc123", OriginalURL: "https://example.com", IsActive: true})
	svc := NewLinkService(store)

	if err := svc.ToggleStatus(context.Background(), seeded.ID, false); err != nil {
		t.Fatalf("ToggleStatus failed: %v", err)
	}
	rec, err := store.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.IsActive {
		t.Error("record still active after pause")
	}

	if err := svc.DeleteLink(context.Background(), seeded.ID); err != nil {
		t.Fatalf("DeleteLink failed: %v", err)
	}
	if _, err := store.Get(context.Background(), seeded.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("record still present after delete: %v", err)
	}
}
