// Package apperrors defines the error kinds the service reports to clients.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error kind in the response envelope.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a failure with a client-facing code and message.
type Error struct {
	Code    Code
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a single violated rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validation reports malformed input. fields lists every violation.
func Validation(message string, fields []FieldError) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: fields}
}

// Unauthorized reports missing, invalid or expired credentials.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller lacking role or ownership.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NotFound reports a missing entity, e.g. NotFound("Event") -> "Event not found".
func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

// Conflict reports a uniqueness or business-rule violation.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Internal wraps an unexpected failure. The cause is never sent to clients.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
