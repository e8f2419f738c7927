package errs

import (
	stderrors "errors"
	"fmt"
)

// Code classifies a coordinator failure.
type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeTimeout         Code = "TIMEOUT"
	CodeFunding         Code = "FUNDING"
	CodeNotAvailable    Code = "NOT_AVAILABLE"
	CodeRemote          Code = "REMOTE"
)

// Error is the single error type returned by the coordinator packages.
type Error struct {
	code    Code
	message string
	cause   error

	// SwapID is set when the failure concerns a swap that already exists remotely.
	SwapID string
	// StatusCode is the HTTP status of a remote rejection, if any.
	StatusCode int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches any *Error with the same code, so errors.Is(err, errs.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeUnknown
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Sentinels for errors.Is.
var (
	ErrInvalidArgument = &Error{code: CodeInvalidArgument}
	ErrNotFound        = &Error{code: CodeNotFound}
	ErrTimeout         = &Error{code: CodeTimeout}
	ErrFunding         = &Error{code: CodeFunding}
	ErrNotAvailable    = &Error{code: CodeNotAvailable}
	ErrRemote          = &Error{code: CodeRemote}
)

func InvalidArgument(format string, args ...any) *Error {
	return &Error{code: CodeInvalidArgument, message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{code: CodeNotFound, message: fmt.Sprintf(format, args...)}
}

func Timeout(format string, args ...any) *Error {
	return &Error{code: CodeTimeout, message: fmt.Sprintf(format, args...)}
}

// Funding reports a swap that was created remotely but could not be funded.
func Funding(swapID string, cause error) *Error {
	return &Error{
		code:    CodeFunding,
		message: fmt.Sprintf("swap %s created but funding payment failed", swapID),
		cause:   cause,
		SwapID:  swapID,
	}
}

func NotAvailable(format string, args ...any) *Error {
	return &Error{code: CodeNotAvailable, message: fmt.Sprintf(format, args...)}
}

// Remote wraps a rejection from the swap service or the wallet. message is the
// remote side's own text.
func Remote(statusCode int, message string, cause error) *Error {
	return &Error{code: CodeRemote, message: message, cause: cause, StatusCode: statusCode}
}

// From extracts the coordinator error from a chain.
func From(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var target *Error
	if stderrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func CodeOf(err error) Code {
	if e, ok := From(err); ok {
		return e.Code()
	}
	return CodeUnknown
}
