// Package errors defines structured error types for the library store.
//
// Callers match with the standard library:
//
//	if errors.Is(err, liberrors.ErrNotManual) {
//	    // switch to manual sort first
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code defines specific error types returned by the store.
type Code string

const (
	// CodeValidation is returned when input data fails validation
	CodeValidation Code = "VALIDATION_FAILED"
	// CodeDuplicate is returned when a record with the same identity is already present
	CodeDuplicate Code = "DUPLICATE"
	// CodeNotFound is returned when a record is not part of the library
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidIndex is returned when an offset does not address a listed record
	CodeInvalidIndex Code = "INVALID_INDEX"
	// CodeNotManual is returned when reordering outside of manual sort mode
	CodeNotManual Code = "NOT_MANUAL"
	// CodeStorage is returned when a disk operation fails
	CodeStorage Code = "STORAGE_ERROR"
)

// Error is a concrete error type with a code, a message and an optional cause.
type Error struct {
	code       Code
	message    string
	details    map[string]any
	wrappedErr error
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetail adds a single detail to the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *Error) Wrap(err error) *Error {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() Code {
	return e.code
}

// Details returns additional error details.
func (e *Error) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *Error) Unwrap() error {
	return e.wrappedErr
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.code == t.code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrValidation   = New(CodeValidation, "validation failed")
	ErrDuplicate    = New(CodeDuplicate, "book already in library")
	ErrNotFound     = New(CodeNotFound, "book not in library")
	ErrInvalidIndex = New(CodeInvalidIndex, "index out of range")
	ErrNotManual    = New(CodeNotManual, "reordering requires manual sort mode")
	ErrStorage      = New(CodeStorage, "storage error")
)

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// MissingField creates a validation error for a missing field.
func MissingField(fieldName string) *Error {
	return Newf(CodeValidation, "missing required field: %s", fieldName).WithDetail("field", fieldName)
}

// InvalidIndex creates an error for an offset outside [0, n).
func InvalidIndex(index, n int) *Error {
	return Newf(CodeInvalidIndex, "index %d out of range [0, %d)", index, n).
		WithDetail("index", index).
		WithDetail("len", n)
}

// Storage creates a storage error wrapping an underlying error.
func Storage(message string, err error) *Error {
	return New(CodeStorage, message).Wrap(err)
}
