// Package apperr defines the outcome taxonomy for request handling. Services
// and validators return *Error values; the HTTP layer maps them to status
// codes in exactly one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindBadInput     Kind = iota // malformed or empty payload
	KindValidation               // business rule rejection, single message
	KindUnauthorized             // missing or bad credentials
	KindForbidden                // caller does not own the target resource
	KindNotFound                 // target entity absent
	KindConflict                 // uniqueness lost at mutation time
	KindStorage                  // underlying database fault
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func BadInput(message string) *Error { return New(KindBadInput, message) }

func Validation(message string) *Error { return New(KindValidation, message) }

func Validationf(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

// Storage wraps a database fault. The original error stays available for
// logging through Unwrap but is never echoed to the client.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "database error", Err: err}
}

// Status maps an error to its HTTP status code. Unclassified errors map to
// 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindBadInput:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to echo to the client. Storage
// faults and unclassified errors surface a generic message only.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	if e.Kind == KindStorage {
		return "database error"
	}
	return e.Message
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
