package errors

import (
	"errors"
	"fmt"
)

// Code identifies a structured error type used across the application.
type Code string

const (
	// Generic codes
	CodeUnknown Code = "unknown"

	// Transport errors
	CodeNetwork     Code = "network"
	CodeServer      Code = "server"
	CodeNotFound    Code = "not_found"
	CodeParseFailed Code = "parse_failed"

	// Domain errors
	CodeValidation         Code = "validation"
	CodeInvalidPriority    Code = "invalid_priority"
	CodeInvalidStatus      Code = "invalid_status"
	CodeInvalidIssueData   Code = "invalid_issue_data"
	CodeConfigurationError Code = "configuration_error"
)

// Error represents a structured error with a machine-readable code plus message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

// Unwrap returns the wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// New wraps an error with a code/message.
func New(code Code, msg string, err error) Error {
	return Error{Code: code, Message: msg, Err: err}
}

// Newf is New with a formatted message and no wrapped error.
func Newf(code Code, format string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf walks the error chain and returns the first structured code found.
func CodeOf(err error) Code {
	var structured Error
	if errors.As(err, &structured) {
		return structured.Code
	}
	return CodeUnknown
}

// IsCode reports whether the error (or its unwrap chain) matches the provided code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// StatusError describes a non-2xx response from the issue backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// StatusOf returns the HTTP status carried by a server error, or 0.
func StatusOf(err error) int {
	var status StatusError
	if errors.As(err, &status) {
		return status.StatusCode
	}
	return 0
}
