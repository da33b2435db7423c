// Package errors provides structured error types for nodedesign.
//
// This package defines error codes and types that enable:
//   - Consistent failure reporting across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The layout engine never lets an error escape its boundary. It reports
// failure through boolean results and keeps the reason as one of the codes
// below:
//   - CYCLE_OR_DISCONNECTED: connectivity analysis could not order the selection
//   - INSUFFICIENT_SELECTION: fewer nodes than the operation needs
//   - INVALID_COMMAND: a history entry cannot be undone or redone
//   - REFRESH_FAILURE: the host redraw request failed (layout is kept)
//
// The outer surfaces (CLI, HTTP) add INVALID_INPUT, NOT_FOUND and
// INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInsufficientSelection, "need %d nodes, got %d", 2, n)
//	if errors.Is(err, errors.ErrCodeInsufficientSelection) {
//	    // nothing to lay out
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRefreshFailure, cause, "mark canvas dirty")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout engine failures
	ErrCodeCycleOrDisconnected   Code = "CYCLE_OR_DISCONNECTED"
	ErrCodeInsufficientSelection Code = "INSUFFICIENT_SELECTION"
	ErrCodeInvalidCommand        Code = "INVALID_COMMAND"
	ErrCodeRefreshFailure        Code = "REFRESH_FAILURE"
	ErrCodeNoRoot                Code = "NO_ROOT"
	ErrCodeEmptyHistory          Code = "EMPTY_HISTORY"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"
	ErrCodeInvalidWorkflow  Code = "INVALID_WORKFLOW"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

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

// FromPanic converts a recovered panic value into an error with code.
// Returns nil when r is nil.
func FromPanic(code Code, r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return Wrap(code, err, "panic")
	}
	return New(code, "panic: %v", r)
}
