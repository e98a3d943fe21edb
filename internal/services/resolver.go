package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
)

// State is the terminal position of one resolution attempt.
type State int

const (
	// StateNotFound covers missing, inactive and expired links uniformly,
	// so probing a code reveals nothing about whether it exists.
	StateNotFound State = iota
	// StatePasswordRequired gates the redirect behind a password. It is
	// retryable: a wrong submission stays here.
	StatePasswordRequired
	// StateRedirecting means the visitor may be forwarded to the target.
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StatePasswordRequired:
		return "password_required"
	case StateRedirecting:
		return "redirecting"
	default:
		return "not_found"
	}
}

// Resolution is the outcome of evaluating a looked-up record. Record is set
// for StatePasswordRequired and StateRedirecting; TargetURL only for
// StateRedirecting.
type Resolution struct {
	State     State
	Record    *models.LinkRecord
	TargetURL string
}

// ClickSink receives click notifications for links that resolved to a
// redirect. The server wires it to the async click pipeline; tests can use
// a synchronous recorder.
type ClickSink interface {
	Record(linkID int64)
}

// Resolver decides whether a visited code is forwarded, password-gated or
// denied, and triggers the click count on forward.
type Resolver struct {
	store  registry.Store
	clicks ClickSink
	now    func() time.Time
}

// NewResolver creates and returns a new Resolver.
func NewResolver(store registry.Store, clicks ClickSink) *Resolver {
	return &Resolver{store: store, clicks: clicks, now: time.Now}
}

// Evaluate applies the resolution rules, in order, against a looked-up
// record (nil when no record matched the code):
//
//  1. no record            -> NotFound
//  2. inactive             -> NotFound
//  3. expired (past or
//     exactly now)         -> NotFound
//  4. password set         -> PasswordRequired
//  5. otherwise            -> Redirecting
//
// It is a pure function of its inputs and produces exactly one state.
func Evaluate(rec *models.LinkRecord, now time.Time) Resolution {
	if rec == nil {
		return Resolution{State: StateNotFound}
	}
	if !rec.IsActive {
		return Resolution{State: StateNotFound}
	}
	if rec.ExpiresAt != nil && !now.Before(*rec.ExpiresAt) {
		return Resolution{State: StateNotFound}
	}
	if rec.Password != "" {
		return Resolution{State: StatePasswordRequired, Record: rec}
	}
	return Resolution{State: StateRedirecting, Record: rec, TargetURL: rec.OriginalURL}
}

// Resolve looks up code and evaluates it. A registry failure during lookup
// is logged and resolves to NotFound, the same as a genuinely unknown code.
// When the outcome is Redirecting the click is reported before returning.
func (r *Resolver) Resolve(ctx context.Context, code string) Resolution {
	rec, err := findByShortCode(ctx, r.store, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("ERROR: lookup of short code %q failed: %v", code, err)
	}

	res := Evaluate(rec, r.now())
	if res.State == StateRedirecting {
		r.clicks.Record(res.Record.ID)
	}
	return res
}

// SubmitPassword checks a submitted password against a password-gated
// record. An exact match records the click and yields Redirecting; anything
// else (including the empty string) re-enters PasswordRequired with
// apperrors.ErrWrongPassword and mutates nothing.
func (r *Resolver) SubmitPassword(rec *models.LinkRecord, password string) (Resolution, error) {
	if rec.Password != "" && password == rec.Password {
		r.clicks.Record(rec.ID)
		return Resolution{State: StateRedirecting, Record: rec, TargetURL: rec.OriginalURL}, nil
	}
	return Resolution{State: StatePasswordRequired, Record: rec}, apperrors.ErrWrongPassword
}
