// Package apperrors defines the typed error taxonomy shared by the sync
// core. Errors are values returned explicitly, never panicked; every
// failure path in the core maps to exactly one of the four kinds.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// Kind classifies an application error.
type Kind string

const (
	// KindValidation marks malformed or invalid documents and inputs.
	KindValidation Kind = "validation"
	// KindUnauthorized marks missing or invalid sessions and credentials.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound marks absent workspaces and entities.
	KindNotFound Kind = "not_found"
	// KindInternal marks unexpected failures.
	KindInternal Kind = "internal"
)

// Error carries a kind, a stable localizable message key and optional
// structured details.
type Error struct {
	Details    map[string]any
	cause      error
	Kind       Kind
	MessageKey string
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.MessageKey, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.MessageKey)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error kind to its default HTTP-like status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Info converts the error to its wire representation.
func (e *Error) Info() *api.ErrorInfo {
	return &api.ErrorInfo{
		Kind:       string(e.Kind),
		MessageKey: e.MessageKey,
		Details:    e.Details,
	}
}

// WithDetails attaches structured details and returns the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause records the underlying error and returns the error.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// Validation builds a ValidationError with the given message key.
func Validation(messageKey string) *Error {
	return &Error{Kind: KindValidation, MessageKey: messageKey}
}

// Unauthorized builds an UnauthorizedError with the given message key.
func Unauthorized(messageKey string) *Error {
	return &Error{Kind: KindUnauthorized, MessageKey: messageKey}
}

// NotFound builds a NotFoundError with the given message key.
func NotFound(messageKey string) *Error {
	return &Error{Kind: KindNotFound, MessageKey: messageKey}
}

// Internal builds an InternalServerError with the given message key.
func Internal(messageKey string) *Error {
	return &Error{Kind: KindInternal, MessageKey: messageKey}
}

// From coerces any error into a typed *Error. Unclassified errors become
// KindInternal so no failure is ever silently swallowed.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("error.internal").WithCause(err)
}

// KindOf reports the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	return From(err).Kind
}

// IsKind reports whether err classifies as the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
