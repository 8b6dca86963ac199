package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// Error carries a user-facing message and the kind it belongs to.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation returns an ErrValidation error.
func Validation(format string, args ...any) error { return newError(ErrValidation, format, args...) }

// NotFound returns an ErrNotFound error.
func NotFound(format string, args ...any) error { return newError(ErrNotFound, format, args...) }

// Unauthorized returns an ErrUnauthorized error.
func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// Conflict returns an ErrConflict error.
func Conflict(format string, args ...any) error { return newError(ErrConflict, format, args...) }

// InvalidState returns an ErrInvalidState error.
func InvalidState(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}
