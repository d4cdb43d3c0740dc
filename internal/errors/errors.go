// Package errors defines stable error codes for all pydoxy failure modes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FileUnreadable indicates the input file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// ParseFailed indicates the input is not parsable Python source
	ParseFailed ErrorCode = "PARSE_FAILED"
	// CacheUnavailable indicates the result cache could not be opened
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// ConfigInvalid indicates the configuration file could not be loaded
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FilterError represents a pydoxy error with a stable code and message
type FilterError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a new FilterError without an underlying cause
func New(code ErrorCode, message string) *FilterError {
	return &FilterError{Code: code, Message: message}
}

// Wrap creates a new FilterError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *FilterError {
	return &FilterError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *FilterError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *FilterError) Unwrap() error {
	return e.cause
}

// CodeOf returns the error code carried by err, or InternalError
// when err is not a FilterError.
func CodeOf(err error) ErrorCode {
	var fe *FilterError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return InternalError
}
