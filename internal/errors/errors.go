// Package errors provides the error kinds shared by buzz packages. Each kind
// maps to a CLI exit code so commands can report failures consistently.
package errors

import (
	"errors"
	"fmt"
)

// Kind represents the category of an error.
type Kind int

const (
	// KindInvalidArgs represents invalid command arguments. Exit code 2.
	KindInvalidArgs Kind = iota

	// KindNotFound represents a missing post or issue. Exit code 3.
	KindNotFound

	// KindInvalidInput represents a value whose type cannot describe a
	// point in time. Exit code 2.
	KindInvalidInput

	// KindInvalidTimestamp represents a date string that could not be parsed.
	// Exit code 2.
	KindInvalidTimestamp

	// KindInternal represents a database or filesystem failure. Exit code 5.
	KindInternal

	// KindGeneral represents anything else. Exit code 1.
	KindGeneral

	// KindStateError represents a status change the issue lifecycle does not
	// allow. Exit code 4.
	KindStateError
)

// String returns a human-readable name for the error kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgs:
		return "InvalidArgs"
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindInvalidTimestamp:
		return "InvalidTimestamp"
	case KindInternal:
		return "Internal"
	case KindGeneral:
		return "General"
	case KindStateError:
		return "StateError"
	default:
		return "Unknown"
	}
}

// Error is a structured error with a kind, message, optional cause and
// optional suggestion for the user.
type Error struct {
	Kind       Kind
	Message    string
	Cause      error
	Details    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the CLI exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindInvalidArgs, KindInvalidInput, KindInvalidTimestamp:
		return 2
	case KindNotFound:
		return 3
	case KindStateError:
		return 4
	case KindInternal:
		return 5
	default:
		return 1
	}
}

// WithDetails adds a detail to the error and returns it for chaining.
func (e *Error) WithDetails(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets a suggestion and returns the error for chaining.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgs creates an error for invalid arguments.
func InvalidArgs(format string, args ...interface{}) *Error {
	return newError(KindInvalidArgs, format, args...)
}

// NotFound creates an error for missing resources.
func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// InvalidInput creates an error for values of an unsupported type.
func InvalidInput(format string, args ...interface{}) *Error {
	return newError(KindInvalidInput, format, args...)
}

// InvalidTimestamp creates an error for unparseable date strings.
func InvalidTimestamp(format string, args ...interface{}) *Error {
	return newError(KindInvalidTimestamp, format, args...)
}

// StateError creates an error for a disallowed status change.
func StateError(format string, args ...interface{}) *Error {
	return newError(KindStateError, format, args...)
}

// Internal creates an error for database or filesystem failures.
func Internal(format string, args ...interface{}) *Error {
	return newError(KindInternal, format, args...)
}

// General creates a general error.
func General(format string, args ...interface{}) *Error {
	return newError(KindGeneral, format, args...)
}

// Wrap wraps an existing error with a kind and message.
func Wrap(err error, kind Kind, format string, args ...interface{}) *Error {
	e := newError(kind, format, args...)
	e.Cause = err
	return e
}

// WrapInternal wraps an error as an internal error.
func WrapInternal(err error, format string, args ...interface{}) *Error {
	return Wrap(err, KindInternal, format, args...)
}

// GetKind extracts the Kind from anywhere in err's chain, returning
// KindGeneral if there is no *Error in it.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneral
}

// GetExitCode extracts the CLI exit code from an error.
func GetExitCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return 1
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
