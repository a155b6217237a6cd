package apperrors

import "errors"

// Kind classifies an application error.
type Kind string

const (
	KindAuthentication Kind = "AUTHENTICATION"
	KindConflict       Kind = "CONFLICT"
	KindValidation     Kind = "VALIDATION"
	KindNotFound       Kind = "NOT_FOUND"
	KindForbidden      Kind = "FORBIDDEN"
)

// Error is returned by the store and services for every expected failure.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, apperrors.ErrValidation) matches any validation failure.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Sentinels for errors.Is comparisons.
var (
	ErrAuthentication = newError(KindAuthentication, "authentication failed")
	ErrConflict       = newError(KindConflict, "conflict")
	ErrValidation     = newError(KindValidation, "validation failed")
	ErrNotFound       = newError(KindNotFound, "not found")
	ErrForbidden      = newError(KindForbidden, "forbidden")
)

func Authentication(message string) *Error { return newError(KindAuthentication, message) }
func Conflict(message string) *Error       { return newError(KindConflict, message) }
func Validation(message string) *Error     { return newError(KindValidation, message) }
func NotFound(message string) *Error       { return newError(KindNotFound, message) }
func Forbidden(message string) *Error      { return newError(KindForbidden, message) }

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
