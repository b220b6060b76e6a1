// Package apperr defines the error taxonomy shared by services and handlers.
// Every user-visible failure is one of five kinds; handlers map kinds to HTTP
// status codes in exactly one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota // malformed or out-of-range input
	KindAuthRequired           // anonymous actor attempted a write
	KindForbidden              // authenticated but insufficient role/ownership
	KindNotFound               // referenced resource does not exist
	KindConflict               // uniqueness violation (duplicate review, signup mismatch)
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

type Error struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Fields)
	}
	return e.Message
}

// Status returns the HTTP status class for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func AuthRequired() *Error {
	return &Error{Kind: KindAuthRequired, Message: "authentication required"}
}

func Forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Message: reason}
}

func Validation(fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// ValidationField is a convenience for a single-field validation failure.
func ValidationField(field, message string) *Error {
	return Validation(FieldErrors{field: {message}})
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
