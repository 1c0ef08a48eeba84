// Package errors provides structured error types for taskvis.
//
// Every failure the layout engine, the ingestion layer or the renderers can
// report carries a machine-readable [Code], so that the CLI, the HTTP API and
// tests can tell an empty dataset apart from a lane overflow without string
// matching.
//
// # Error Codes
//
// Layout failures:
//   - EMPTY_INPUT: no records were supplied
//   - DEGENERATE_TIME_RANGE: every record starts and ends at the same instant
//   - LANE_CAPACITY_EXCEEDED: more concurrent intervals than lanes
//   - INVALID_RECORD: end before start, negative rows or missing labels
//
// Input failures:
//   - INVALID_CONFIG, INVALID_CSV, INVALID_FORMAT, INVALID_INPUT
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyInput, "no records to lay out")
//	if errors.Is(err, errors.ErrCodeEmptyInput) {
//	    // ask the user for a different file
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, origErr, "connect %s", uri)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors
	ErrCodeEmptyInput           Code = "EMPTY_INPUT"
	ErrCodeDegenerateTimeRange  Code = "DEGENERATE_TIME_RANGE"
	ErrCodeLaneCapacityExceeded Code = "LANE_CAPACITY_EXCEEDED"
	ErrCodeInvalidRecord        Code = "INVALID_RECORD"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidCSV    Code = "INVALID_CSV"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// IsInput reports whether the code describes a problem with caller-supplied
// data rather than with the environment. Retrying such an error with the same
// input always fails the same way.
func (c Code) IsInput() bool {
	switch c {
	case ErrCodeEmptyInput, ErrCodeDegenerateTimeRange, ErrCodeLaneCapacityExceeded,
		ErrCodeInvalidRecord, ErrCodeInvalidInput, ErrCodeInvalidConfig,
		ErrCodeInvalidCSV, ErrCodeInvalidFormat:
		return true
	}
	return false
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
