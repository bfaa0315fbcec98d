// Package errors provides structured error types for stargen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: configuration or input validation failures
//   - PLACEMENT_FAILED / GENERATION_EXHAUSTED: generation could not finish
//   - NOT_FOUND: a stored galaxy does not exist
//   - INTERNAL_ERROR: unexpected internal errors
//
// Expected constraint failures during generation (an empire that does not fit
// on the map) are reported as structured results by the solver and only
// become an *Error when the generator runs out of attempts.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOptions, "width %d exceeds %d", w, max)
//	if errors.Is(err, errors.ErrCodeInvalidOptions) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidTable, parseErr, "load %s", name)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidOptions    Code = "INVALID_OPTIONS"
	ErrCodeInvalidTable      Code = "INVALID_TABLE"
	ErrCodeInvalidDescriptor Code = "INVALID_DESCRIPTOR"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Generation errors
	ErrCodePlacementFailed     Code = "PLACEMENT_FAILED"
	ErrCodeGenerationExhausted Code = "GENERATION_EXHAUSTED"

	// Resource errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidOptions, ErrCodeInvalidDescriptor, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodePlacementFailed, ErrCodeGenerationExhausted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
