// Package faults defines the error taxonomy shared by the coordinator, the
// store, and the exposed surface.
//
// Callers should prefer the predicate functions (IsConflict, IsTransient,
// etc.) to inspect errors rather than asserting on the Error type directly.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies an error for retry and surfacing decisions.
type Kind int

const (
	// Validation: malformed or incomplete input. Never retried; surfaced
	// immediately to the caller.
	Validation Kind = iota + 1
	// Conflict: run-lock contention or a stale state transition. Never
	// retried; the caller must query current status.
	Conflict
	// Transient: timeout or service unavailable. Retried per the stage
	// policy, then escalated to a stage failure.
	Transient
	// Expired: the restore window has elapsed.
	Expired
	// NotFound: the entity is missing or soft-deleted.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case Transient:
		return "transient"
	case Expired:
		return "expired"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// Error is a classified error with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string // short operation name, e.g. "start_run"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err (or creates a new error from msg when err is nil) with a kind
// and operation.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or 0 when err carries no classification.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// Is lets errors.Is match a classified error against another by kind.
func (e *Error) Is(target error) bool {
	var fe *Error
	if errors.As(target, &fe) {
		return fe.Kind == e.Kind
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == Validation }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == Conflict }

// IsTransient reports whether err is a transient service error.
func IsTransient(err error) bool { return KindOf(err) == Transient }

// IsExpired reports whether err is an expired-window error.
func IsExpired(err error) bool { return KindOf(err) == Expired }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }
