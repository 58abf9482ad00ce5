// Package apperr is the error taxonomy shared by the service and handler
// layers. Every failure a caller can act on is an *AppError carrying a Kind;
// anything else is treated as an internal error by the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the response status used by the API.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a classified error. Field names the offending input field when
// there is one. Cause is kept for logs and is never rendered to clients.
type AppError struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	// internal causes are logged, never rendered, so keep them in the text
	if e.Kind == KindInternal && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches the kind sentinels below, so callers can write
// errors.Is(err, apperr.ErrConflict).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Message == "" && t.Field == "" && t.Cause == nil {
		return e.Kind == t.Kind
	}
	return e == t
}

var (
	ErrValidation     = &AppError{Kind: KindValidation}
	ErrConflict       = &AppError{Kind: KindConflict}
	ErrAuthentication = &AppError{Kind: KindAuthentication}
	ErrAuthorization  = &AppError{Kind: KindAuthorization}
	ErrNotFound       = &AppError{Kind: KindNotFound}
)

func Validation(field, msg string) *AppError {
	return &AppError{Kind: KindValidation, Field: field, Message: msg}
}

func Conflict(field, msg string) *AppError {
	return &AppError{Kind: KindConflict, Field: field, Message: msg}
}

func Authentication(msg string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: msg}
}

func Authorization(msg string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: msg}
}

// NotFound builds the error for a missing resource, e.g. NotFound("title").
func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Cause: cause}
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As extracts the *AppError from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
