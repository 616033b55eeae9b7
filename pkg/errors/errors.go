// Package errors provides structured error types for rankorder.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MALFORMED_LAYERING, DANGLING_EDGE: Layering invariants
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "edge %s->%s has NaN weight", from, to)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // Handle validation error
//	}
//
//	// Classify errors coming from the core packages
//	coded := errors.FromError(err)
//	status := coded.Code.HTTPStatus()
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph   Code = "INVALID_GRAPH"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidQuality Code = "INVALID_QUALITY"

	// Layering invariants
	ErrCodeMalformedLayering Code = "MALFORMED_LAYERING"
	ErrCodeDanglingEdge      Code = "DANGLING_EDGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Run control
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeCanceled Code = "CANCELED"

	// Internal errors
	ErrCodeCache       Code = "CACHE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// HTTPStatus maps the code to the status returned by the HTTP API.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidGraph,
		ErrCodeInvalidPath, ErrCodeInvalidConfig, ErrCodeInvalidQuality:
		return http.StatusBadRequest
	case ErrCodeMalformedLayering, ErrCodeDanglingEdge:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCanceled:
		return 499 // client closed request
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

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

// FromError classifies err into an *Error. Errors that already carry a code
// are returned unchanged; layering, graph and context errors get their
// matching code and everything else becomes ErrCodeInternal. FromError(nil)
// returns nil.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, dag.ErrMalformedLayering):
		return Wrap(ErrCodeMalformedLayering, err, "layering does not place every node exactly once")
	case errors.Is(err, dag.ErrDanglingEdge):
		return Wrap(ErrCodeDanglingEdge, err, "edge does not connect adjacent ranks")
	case errors.Is(err, dag.ErrInvalidNodeID),
		errors.Is(err, dag.ErrDuplicateNodeID),
		errors.Is(err, dag.ErrUnknownSourceNode),
		errors.Is(err, dag.ErrUnknownTargetNode),
		errors.Is(err, dag.ErrNegativeWeight),
		errors.Is(err, dag.ErrNonFiniteWeight):
		return Wrap(ErrCodeInvalidGraph, err, "invalid graph")
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, "ordering timed out")
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCanceled, err, "ordering canceled")
	}
	return Wrap(ErrCodeInternal, err, "internal error")
}
