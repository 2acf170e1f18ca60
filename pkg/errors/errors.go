// Package errors provides the coded error type used across gostl3mf.
//
// Every failure of the core packages carries one of a small set of codes so
// callers can tell apart bad input, layout problems, package I/O failures and
// misuse of closed handles without matching on message text:
//
//	VALIDATION     malformed mesh, out-of-range index, non-finite transform
//	LAYOUT         invalid count, spacing factor or column count
//	PACKAGE_WRITE  unwritable path, empty model, failed commit
//	PACKAGE_READ   corrupt ZIP, missing part, unparseable XML
//	INVALID_STATE  operation on a closed writer or archive
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayout, "spacing factor %.2f is below 1.0", f)
//	if errors.Is(err, errors.ErrCodeLayout) {
//	    // reject the request
//	}
//
//	// Package read errors name the internal part they refer to
//	err := errors.PackageRead("3D/3dmodel.model", cause, "invalid model XML")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core error kinds
	ErrCodeValidation   Code = "VALIDATION"
	ErrCodeLayout       Code = "LAYOUT"
	ErrCodePackageWrite Code = "PACKAGE_WRITE"
	ErrCodePackageRead  Code = "PACKAGE_READ"
	ErrCodeInvalidState Code = "INVALID_STATE"

	// Collaborator and CLI errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, an optional archive-internal path
// and an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Internal package path the error refers to (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath returns a copy of e that names the given internal path.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
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

// Validation reports malformed input geometry.
func Validation(format string, args ...any) *Error {
	return New(ErrCodeValidation, format, args...)
}

// Layout reports an invalid layout request.
func Layout(format string, args ...any) *Error {
	return New(ErrCodeLayout, format, args...)
}

// PackageWrite reports a failure to produce a package. cause may be nil.
func PackageWrite(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodePackageWrite, cause, format, args...)
}

// PackageRead reports a failure to read the part at path. cause may be nil.
func PackageRead(path string, cause error, format string, args ...any) *Error {
	return Wrap(ErrCodePackageRead, cause, format, args...).WithPath(path)
}

// InvalidState reports an operation on a handle that is not open.
func InvalidState(format string, args ...any) *Error {
	return New(ErrCodeInvalidState, format, args...)
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
// For *Error types, returns the message (prefixed with the path, if any)
// without the code. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return e.Path + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
