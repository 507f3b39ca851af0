// Package errors defines the error taxonomy shared by services and handlers.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Code is a machine-readable error code returned to API clients.
type Code string

const (
	CodeUnknown              Code = "UNKNOWN"
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeDuplicateCredential  Code = "DUPLICATE_CREDENTIAL"
	CodeAuthenticationFailed Code = "AUTHENTICATION_FAILED"
	CodeTokenInvalid         Code = "TOKEN_INVALID"
	CodeTokenExpired         Code = "TOKEN_EXPIRED"
	// CodeNotFound covers both missing records and records owned by someone else.
	CodeNotFound           Code = "NOT_FOUND"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

// Error is the domain error type.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Client-safe message
	Cause   error  // Wrapped underlying error, never shown to clients
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeUnknown
}

// HTTPStatus maps a code to the status written by the HTTP layer.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeDuplicateCredential:
		return http.StatusBadRequest
	case CodeAuthenticationFailed, CodeTokenInvalid, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStorageUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
