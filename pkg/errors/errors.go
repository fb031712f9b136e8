// Package errors defines the closed set of failure kinds xmvnconf reports.
// Callers branch on ErrorCode rather than on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Emission errors. Each is terminal for the operation that raised it.
	ErrCorruptState      ErrorCode = "CORRUPT_STATE"
	ErrMissingContent    ErrorCode = "MISSING_CONTENT"
	ErrInvalidOptionPath ErrorCode = "INVALID_OPTION_PATH"
	ErrIO                ErrorCode = "IO"

	// Input errors raised outside the emitter (CLI, manifests)
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// Sentinels for use with errors.Is; matching is by code only.
var (
	ErrCorruptStateKind      = &XmvnError{Code: ErrCorruptState}
	ErrMissingContentKind    = &XmvnError{Code: ErrMissingContent}
	ErrInvalidOptionPathKind = &XmvnError{Code: ErrInvalidOptionPath}
	ErrIOKind                = &XmvnError{Code: ErrIO}
)

// XmvnError represents a structured error with code and details
type XmvnError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *XmvnError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *XmvnError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *XmvnError) Is(target error) bool {
	var targetErr *XmvnError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new XmvnError with the given code and message
func New(code ErrorCode, message string) *XmvnError {
	return &XmvnError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new XmvnError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *XmvnError {
	return &XmvnError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an XmvnError
func Wrap(err error, code ErrorCode, message string) *XmvnError {
	if err == nil {
		return nil
	}
	return &XmvnError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *XmvnError {
	if err == nil {
		return nil
	}
	return &XmvnError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *XmvnError) WithDetail(key string, value interface{}) *XmvnError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var xerr *XmvnError
	if errors.As(err, &xerr) {
		return xerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an XmvnError
func GetErrorCode(err error) ErrorCode {
	var xerr *XmvnError
	if errors.As(err, &xerr) {
		return xerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an XmvnError
func GetErrorDetails(err error) map[string]interface{} {
	var xerr *XmvnError
	if errors.As(err, &xerr) {
		return xerr.Details
	}
	return nil
}
