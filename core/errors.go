package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a normalized non-2xx response from the backend: the HTTP
// status plus the human-readable message and optional details parsed from
// the error body. When the body cannot be parsed, Message falls back to the
// transport-level status description.
type APIError struct {
	Status  int
	Message string
	Details string
}

func NewAPIError(status int, message, details string) *APIError {
	return &APIError{Status: status, Message: message, Details: details}
}

func (e APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// AsAPIError unwraps err to the underlying *APIError, if any.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}

// TransportError indicates that no response was obtained at all
// (connectivity failure, canceled context, ...).
type TransportError struct {
	URL string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is (or wraps) a *TransportError.
func IsTransportError(err error) bool {
	_, ok := errors.Cause(err).(*TransportError)
	return ok
}
