// Package errors provides structured error handling for proton.
//
// Column accessors never panic on a bad access. Every contract violation is
// returned as an *Error whose Type names the failure kind and whose Details
// carry the offending column family and operation, so an executor can skip
// a column or fail a single query instead of aborting the process.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeUnsupportedOperation is returned when a column variant does not
	// support the requested access
	ErrorTypeUnsupportedOperation ErrorType = "unsupported_operation"
	// ErrorTypeIndexOutOfBounds is returned when a row index is negative or
	// not smaller than the column size
	ErrorTypeIndexOutOfBounds ErrorType = "index_out_of_bounds"
	// ErrorTypeTypeMismatch is returned when a value or column is not of the
	// requested kind
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeNotComparable is returned when ordering is requested on values
	// that have none
	ErrorTypeNotComparable ErrorType = "not_comparable"
	// ErrorTypeMalformedColumn is returned by builders when column invariants
	// would be violated
	ErrorTypeMalformedColumn ErrorType = "malformed_column"
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Detail keys attached to column errors.
const (
	DetailFamily    = "family"
	DetailOperation = "operation"
	DetailIndex     = "index"
	DetailSize      = "size"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the value stored under key, if any.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether any structured error in err's chain has the given
// type. A narrowing accessor failure is a TypeMismatch wrapping an
// UnsupportedOperation, and matches both.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errType {
			return true
		}
		err = e.Cause
	}
	return false
}

// TypeOf returns the type of the outermost structured error in err's
// chain, or ErrorTypeInternal if there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// IsUnsupported reports whether err is an UnsupportedOperation error.
func IsUnsupported(err error) bool { return IsType(err, ErrorTypeUnsupportedOperation) }

// IsOutOfBounds reports whether err is an IndexOutOfBounds error.
func IsOutOfBounds(err error) bool { return IsType(err, ErrorTypeIndexOutOfBounds) }

// IsTypeMismatch reports whether err is a TypeMismatch error.
func IsTypeMismatch(err error) bool { return IsType(err, ErrorTypeTypeMismatch) }

// IsNotComparable reports whether err is a NotComparable error.
func IsNotComparable(err error) bool { return IsType(err, ErrorTypeNotComparable) }

// IsMalformed reports whether err is a MalformedColumn error.
func IsMalformed(err error) bool { return IsType(err, ErrorTypeMalformedColumn) }

// Unsupported builds the error returned when family does not support op.
func Unsupported(family, op string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedOperation,
		Message: fmt.Sprintf("%s is not supported for %s", op, family),
		Stack:   captureStack(2),
		Details: map[string]interface{}{
			DetailFamily:    family,
			DetailOperation: op,
		},
	}
}

// OutOfBounds builds the error returned when index n is outside [0, size).
func OutOfBounds(family, op string, n, size int) *Error {
	return &Error{
		Type:    ErrorTypeIndexOutOfBounds,
		Message: fmt.Sprintf("%s: index %d out of range [0, %d) for %s", op, n, size, family),
		Stack:   captureStack(2),
		Details: map[string]interface{}{
			DetailFamily:    family,
			DetailOperation: op,
			DetailIndex:     n,
			DetailSize:      size,
		},
	}
}

// Malformed builds a construction-time invariant violation for family.
func Malformed(family, format string, args ...interface{}) *Error {
	return &Error{
		Type:    ErrorTypeMalformedColumn,
		Message: fmt.Sprintf("%s: %s", family, fmt.Sprintf(format, args...)),
		Stack:   captureStack(2),
		Details: map[string]interface{}{
			DetailFamily: family,
		},
	}
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
