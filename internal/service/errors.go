// Package service holds the use cases of the rental backend.  Every
// exported operation takes the calling model.Principal explicitly and
// returns either a result or an *Error carrying a Kind, so callers branch
// on the kind and never on message text.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.  The string value is what clients see in the
// "code" field of an error response.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindUnauthenticated    Kind = "unauthenticated"
	KindNotFound           Kind = "not_found"
	KindReadingNotFound    Kind = "reading_not_found"
	KindNoActiveSession    Kind = "no_active_session"
	KindAccessDenied       Kind = "access_denied"
	KindDuplicateReading   Kind = "duplicate_reading"
	KindDuplicateBill      Kind = "duplicate_bill"
	KindInvalidConsumption Kind = "invalid_consumption"
	KindConflict           Kind = "conflict"
	KindPersistenceFailure Kind = "persistence_failure"
	KindInternal           Kind = "internal"
)

// Error is the error type returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func wrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func invalidInput(format string, args ...any) *Error {
	return newError(KindInvalidInput, fmt.Sprintf(format, args...))
}

// internal wraps an unexpected storage failure on a read path.
func internal(msg string, err error) *Error { return wrapError(KindInternal, msg, err) }

// KindOf returns the Kind of err, or KindInternal when err is not a
// service error.  It returns "" for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err.  Wrapped causes are
// never included.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal error"
}
