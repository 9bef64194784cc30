// Package domainerrors defines code-carrying domain errors.
//
// Services and handlers construct errors with New and inspect them with
// HasCode. The HTTP layer (pkg/platform/httputil) translates codes into
// status codes and a stable JSON envelope. Codes are machine-readable and
// part of the API contract; messages are human-readable and may change.
package domainerrors

import "errors"

// Code is a stable, machine-readable error classification.
type Code string

const (
	// CodeBadRequest covers malformed requests (bad JSON, wrong shape).
	CodeBadRequest Code = "bad_request"

	// CodeValidation covers well-formed requests with invalid field values.
	CodeValidation Code = "validation_failed"

	// CodeInvalidInput covers rejected identifiers and other typed inputs.
	CodeInvalidInput Code = "invalid_input"

	// CodeUnauthorized covers missing or failed authentication.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound covers unknown resources and ownership mismatches.
	// The two cases are deliberately indistinguishable to callers.
	CodeNotFound Code = "not_found"

	// CodeConflict covers operations refused due to current resource state.
	CodeConflict Code = "conflict"

	// CodeInternal covers store and infrastructure failures. The HTTP layer
	// never exposes the message for this code.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a classification code.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

// New constructs a domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap constructs a domain error that preserves an underlying cause for
// errors.Is / errors.As chains while presenting a domain-level message.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// HasCode reports whether err (or any error it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in the domain layer.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
