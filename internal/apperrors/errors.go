// Package apperrors defines the error taxonomy shared by the link services.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a short code or record id cannot be resolved.
// Missing, inactive and expired links all collapse into this error so that a
// probe cannot distinguish between them.
var ErrNotFound = errors.New("link not found")

// ErrWrongPassword is returned on a password mismatch during resolution.
// It is retryable: the resolver stays in its password-required state.
var ErrWrongPassword = errors.New("incorrect password")

// ValidationError reports rejected creation input. It never follows a
// registry write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a short code that cannot be allocated, either
// because a custom code is taken or because generation exhausted its
// attempts.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string { return e.Reason }

// BackendError wraps a failed registry call. The registry reports errors as
// a bare boolean, so the only detail available is which operation failed.
type BackendError struct {
	Op  string
	Err error
}

func (e BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("registry %s failed", e.Op)
}

func (e BackendError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c ConflictError
	return errors.As(err, &c)
}

// IsBackend reports whether err is a BackendError.
func IsBackend(err error) bool {
	var b BackendError
	return errors.As(err, &b)
}
