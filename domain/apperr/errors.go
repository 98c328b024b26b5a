// Package apperr defines the caller-visible failures of combat and war flows.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a domain failure
type Kind string

const (
	// KindNotFound means a referenced user, clan or war does not exist
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidState covers failed preconditions such as a shielded target or no active war
	KindInvalidState Kind = "INVALID_STATE"
	// KindCooldownActive means the action is not yet allowed; CooldownEndsAt is set
	KindCooldownActive Kind = "COOLDOWN_ACTIVE"
	// KindConflict means a capacity limit would be exceeded
	KindConflict Kind = "CONFLICT"
)

// Error is a domain failure that aborts the current unit of work
type Error struct {
	Kind           Kind
	Message        string
	CooldownEndsAt *time.Time
}

func (e *Error) Error() string {
	if e.CooldownEndsAt != nil {
		return fmt.Sprintf("%s (until %s)", e.Message, e.CooldownEndsAt.UTC().Format(time.RFC3339))
	}
	return e.Message
}

// NotFound creates a KindNotFound error
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidState creates a KindInvalidState error
func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a KindConflict error
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// CooldownActive creates a KindCooldownActive error carrying the end of the wait
func CooldownActive(endsAt time.Time, format string, args ...any) *Error {
	return &Error{
		Kind:           KindCooldownActive,
		Message:        fmt.Sprintf(format, args...),
		CooldownEndsAt: &endsAt,
	}
}

// IsKind reports whether err wraps a domain error of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// CooldownEnd extracts the cooldown end time from a CooldownActive error
func CooldownEnd(err error) (time.Time, bool) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.CooldownEndsAt != nil {
		return *appErr.CooldownEndsAt, true
	}
	return time.Time{}, false
}
