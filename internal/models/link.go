package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the naive timestamp format used on the registry wire
// ("YYYY-MM-DD HH:MM:SS", no timezone).
const TimeLayout = "2006-01-02 15:04:05"

// LinkRecord represents a shortened link stored in the registry.
// It is the only persisted entity: the displayed link list is a derived
// cache owned by the synchronizer, and clicks are a plain counter column.
type LinkRecord struct {
	ID          int64  `gorm:"primaryKey"`
	OriginalURL string `gorm:"not null"`
	ShortCode   string `gorm:"size:50;index;not null"`
	Clicks      int64  `gorm:"not null;default:0"`
	IsCustom    bool   `gorm:"not null;default:false"`
	Password    string `gorm:"size:255"`
	ExpiresAt   *time.Time
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName keeps the table aligned with the registry resource name.
func (LinkRecord) TableName() string { return "urls" }

// linkWire mirrors LinkRecord in its JSON shape. The registry contract is
// loose: booleans may arrive as 0/1 or true/false, clicks may be a quoted
// number, timestamps are naive strings. Everything is normalized here so the
// rest of the code only ever sees Go types.
type linkWire struct {
	ID          wireInt  `json:"id,omitempty"`
	OriginalURL string   `json:"original_url"`
	ShortCode   string   `json:"short_code"`
	Clicks      wireInt  `json:"clicks"`
	IsCustom    wireBool `json:"is_custom"`
	Password    *string  `json:"password,omitempty"`
	ExpiresAt   *string  `json:"expires_at,omitempty"`
	IsActive    wireBool `json:"is_active"`
	CreatedAt   *string  `json:"created_at,omitempty"`
	UpdatedAt   *string  `json:"updated_at,omitempty"`
}

func (l LinkRecord) MarshalJSON() ([]byte, error) {
	w := linkWire{
		ID:          wireInt(l.ID),
		OriginalURL: l.OriginalURL,
		ShortCode:   l.ShortCode,
		Clicks:      wireInt(l.Clicks),
		IsCustom:    wireBool(l.IsCustom),
		IsActive:    wireBool(l.IsActive),
	}
	if l.Password != "" {
		p := l.Password
		w.Password = &p
	}
	if l.ExpiresAt != nil {
		s := l.ExpiresAt.Format(TimeLayout)
		w.ExpiresAt = &s
	}
	if !l.CreatedAt.IsZero() {
		s := l.CreatedAt.Format(TimeLayout)
		w.CreatedAt = &s
	}
	if !l.UpdatedAt.IsZero() {
		s := l.UpdatedAt.Format(TimeLayout)
		w.UpdatedAt = &s
	}
	return json.Marshal(w)
}

func (l *LinkRecord) UnmarshalJSON(data []byte) error {
	var w linkWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.ID = int64(w.ID)
	l.OriginalURL = w.OriginalURL
	l.ShortCode = w.ShortCode
	l.Clicks = int64(w.Clicks)
	l.IsCustom = bool(w.IsCustom)
	l.IsActive = bool(w.IsActive)
	l.Password = ""
	if w.Password != nil {
		l.Password = *w.Password
	}
	l.ExpiresAt = nil
	if w.ExpiresAt != nil && *w.ExpiresAt != "" {
		t, err := ParseWireTime(*w.ExpiresAt)
		if err != nil {
			return fmt.Errorf("invalid expires_at: %w", err)
		}
		l.ExpiresAt = &t
	}
	l.CreatedAt = time.Time{}
	if w.CreatedAt != nil && *w.CreatedAt != "" {
		t, err := ParseWireTime(*w.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid created_at: %w", err)
		}
		l.CreatedAt = t
	}
	l.UpdatedAt = time.Time{}
	if w.UpdatedAt != nil && *w.UpdatedAt != "" {
		t, err := ParseWireTime(*w.UpdatedAt)
		if err != nil {
			return fmt.Errorf("invalid updated_at: %w", err)
		}
		l.UpdatedAt = t
	}
	return nil
}

// ParseWireTime parses a registry timestamp. The naive layout is the
// contract; RFC3339 is tolerated because some backends echo it back.
func ParseWireTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// wireBool accepts true/false, 0/1 or their quoted string forms.
type wireBool bool

func (b *wireBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch s {
	case "1", "true", "TRUE", "True":
		*b = true
	case "0", "false", "FALSE", "False", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", s)
	}
	return nil
}

// wireInt accepts a JSON number or a quoted number.
type wireInt int64

func (n *wireInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", s)
	}
	*n = wireInt(v)
	return nil
}

// ClickEvent is the lightweight payload passed through the click channel
// between the redirect path and the click workers.
type ClickEvent struct {
	LinkID    int64
	Timestamp time.Time
}
