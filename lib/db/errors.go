package db

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// ErrCode classifies errors returned by the db package.
type ErrCode uint64

const (
	ErrCodeUnknown       ErrCode = iota // 0: Unclassified error.
	ErrCodeConfiguration                // 1: Caller misuse of a query operator.
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeConfiguration:
		return "ConfigurationError"
	default:
		return "Unknown"
	}
}

// Error wraps an error code and a message.
type Error struct {
	Code ErrCode // The error code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, ErrConfiguration) works for any configuration error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// ErrConfiguration matches every configuration error with errors.Is.
var ErrConfiguration = &Error{Code: ErrCodeConfiguration}
