// Package domainerrors defines the error taxonomy shared by all bot
// components. Handlers and stores return coded errors; the command processor
// translates codes into reply text and the health layer into status codes,
// so failure modes stay enumerable and testable.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for boundary translation.
type Code string

const (
	// CodeUsage marks malformed or missing command arguments.
	CodeUsage Code = "usage"
	// CodeUnauthorized marks a caller lacking privilege for the operation.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks an operation on an absent record.
	CodeNotFound Code = "not_found"
	// CodeUnavailable marks an unreachable backing store.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks any unexpected failure.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It optionally wraps a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the domain code from err, unwrapping as needed.
// Non-domain errors report CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
