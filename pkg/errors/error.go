// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown errors
//   - Configuration errors (100-199): Invalid config files, flags, versions and formats
//   - Input errors (200-299): Missing, unreadable or malformed input files
//   - Output errors (300-399): Output files that cannot be created or written
//   - Run errors (900-999): Interrupted runs
//
// Each code belongs to a Kind (FileNotFound, ParseError, WriteError, ...),
// which is what the command line reports through its exit status.
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeFileNotFound, "input file %s not found", path)
//	err = errors.Wrapf(errors.ErrCodeWriteFailed, cause, "failed to write %s", path)
//
//	if errors.GetKind(err) == errors.KindParse { ... }
//
// *Error implements Unwrap, so the standard library's errors.Is and errors.As
// see through it to the cause.
package errors

import (
	"errors"
	"fmt"
)

// Error is a failure tagged with an ErrorCode.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates an Error without a cause.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap tags cause with code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind returns the failure kind of the error's code.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// GetCode returns the code of the outermost *Error in err's chain, or
// ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ErrCodeUnknown
	}

	return e.Code
}

// HasCode reports whether GetCode(err) is code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetKind returns the failure kind of err. A nil error has no kind and errors
// carrying no code are KindUnknown.
func GetKind(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}

	return e.Kind()
}
