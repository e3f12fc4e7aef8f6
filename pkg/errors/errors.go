// Package errors provides structured error types for the casperflow tools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for editor front ends
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Graph edit failures map one-to-one onto the netlist taxonomy:
//   - BAD_INDEX: an id or handle no longer resolves (removed, or captured
//     from an older snapshot)
//   - IDENTICAL_PINS, INCOMPATIBLE_KINDS, DIRECTION, INPUT_DRIVEN: rejected
//     connections
//
// Other codes follow the INVALID_* / NOT_FOUND / INTERNAL_* convention.
// None of these conditions is transient; callers should not retry.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeBadIndex, "no pin with id %d", id)
//	if errors.Is(err, errors.ErrCodeBadIndex) {
//	    // refresh the snapshot
//	}
//
//	// Classify an error returned by package netlist
//	err := errors.FromNetlist(origErr)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/casperflow/pkg/netlist"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph edit errors
	ErrCodeBadIndex          Code = "BAD_INDEX"
	ErrCodeIdenticalPins     Code = "IDENTICAL_PINS"
	ErrCodeIncompatibleKinds Code = "INCOMPATIBLE_KINDS"
	ErrCodeDirection         Code = "DIRECTION"
	ErrCodeInputDriven       Code = "INPUT_DRIVEN"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidLibrary Code = "INVALID_LIBRARY"
	ErrCodeInvalidDesign  Code = "INVALID_DESIGN"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidName    Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodePoisoned    Code = "POISONED"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message and its cause without the code
// prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// netlistCodes maps netlist sentinels to codes. The message is a short
// summary; the netlist error itself becomes the cause.
var netlistCodes = []struct {
	sentinel error
	code     Code
	message  string
}{
	{netlist.ErrBadIndex, ErrCodeBadIndex, "connection rejected"},
	{netlist.ErrUnknownModule, ErrCodeBadIndex, "pin rejected"},
	{netlist.ErrIdenticalPins, ErrCodeIdenticalPins, "connection rejected"},
	{netlist.ErrCompatibility, ErrCodeIncompatibleKinds, "connection rejected"},
	{netlist.ErrDirection, ErrCodeDirection, "connection rejected"},
	{netlist.ErrInputDriven, ErrCodeInputDriven, "connection rejected"},
	{netlist.ErrInvariant, ErrCodeInternal, "inconsistent netlist"},
}

// FromNetlist classifies an error returned by package netlist. Errors that
// already carry a code are returned unchanged; unknown errors become
// INTERNAL_ERROR. It returns nil for a nil error.
func FromNetlist(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, nc := range netlistCodes {
		if errors.Is(err, nc.sentinel) {
			return &Error{Code: nc.code, Message: nc.message, Cause: err}
		}
	}
	return Wrap(ErrCodeInternal, err, "unexpected netlist error")
}

// HTTPStatus returns the HTTP status code an API should answer with for
// the given error code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeBadIndex, ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeIdenticalPins, ErrCodeIncompatibleKinds, ErrCodeDirection, ErrCodeInputDriven:
		return http.StatusConflict
	case ErrCodeInvalidInput, ErrCodeInvalidLibrary, ErrCodeInvalidDesign,
		ErrCodeInvalidFormat, ErrCodeInvalidName:
		return http.StatusBadRequest
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodePoisoned:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
