package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry/registrytest"
)

func TestGenerateShortCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateShortCode(CodeLength)
		if err != nil {
			t.Fatalf("GenerateShortCode failed: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(charset, c) {
				t.Fatalf("code %q contains %q, outside the charset", code, c)
			}
		}
	}
}

func TestCollisionCheckerExists(t *testing.T) {
	store := registrytest.NewMemStore()
	store.Seed(models.LinkRecord{ShortCode: "AbCdEf", OriginalURL: "https://example.com", IsActive: true})
	checker := NewCollisionChecker(store)

	tests := []struct {
		code string
		want bool
	}{
		{"AbCdEf", true},
		{"abcdef", true}, // case-insensitive
		{"ABCDEF", true},
		{"other1", false},
	}
	for _, tt := range tests {
		if got := checker.Exists(context.Background(), tt.code); got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCollisionCheckerFailsOpen(t *testing.T) {
	store := registrytest.NewMemStore()
	store.Seed(models.LinkRecord{ShortCode: "abc123", OriginalURL: "https://example.com", IsActive: true})
	store.FailList = true
	checker := NewCollisionChecker(store)

	// A registry read error reports "does not exist" rather than failing
	// the caller.
	if checker.Exists(context.Background(), "abc123") {
		t.Error("Exists reported true on a failed registry read")
	}
}
