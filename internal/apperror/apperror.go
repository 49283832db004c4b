// Package apperror defines the error kinds shared by the query builders, the
// services and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	// KindInvalidRequest is a malformed or inconsistent request.
	KindInvalidRequest Kind = "invalid_request"
	// KindUnauthorized is a missing or invalid credential.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden is a valid credential without the required rights.
	KindForbidden Kind = "forbidden"
	// KindNotFound is a missing target row.
	KindNotFound Kind = "not_found"
	// KindConflict is a duplicate of an existing row.
	KindConflict Kind = "conflict"
)

// Sentinel values for errors.Is checks.
var (
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrForbidden      = &Error{Kind: KindForbidden}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
)

// Error is an application error with a human readable message.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidRequest returns a KindInvalidRequest error.
func InvalidRequest(format string, args ...interface{}) *Error {
	return newError(KindInvalidRequest, format, args...)
}

// Unauthorized returns a KindUnauthorized error.
func Unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

// Forbidden returns a KindForbidden error.
func Forbidden(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// Conflict returns a KindConflict error.
func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
