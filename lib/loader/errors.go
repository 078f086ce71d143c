package loader

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// ErrCode classifies errors returned by the loader.
type ErrCode uint64

const (
	ErrCodeUnknown       ErrCode = iota // 0: Unclassified error.
	ErrCodeParse                        // 1: Malformed fragment row or value.
	ErrCodeIO                           // 2: A file or directory could not be listed, stat'ed or read.
	ErrCodeDuplicateName                // 3: Two database directories share a base name.
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeParse:
		return "ParseError"
	case ErrCodeIO:
		return "IOError"
	case ErrCodeDuplicateName:
		return "DuplicateNameError"
	default:
		return "Unknown"
	}
}

// Error describes a failure while loading fragments.
type Error struct {
	Code ErrCode // The error code
	Msg  string  // The error message
	File string  // Fragment file or directory involved (optional)
	Line int     // 1-based line within File (0 = unknown)
	Name string  // Database name (DuplicateNameError only)
	Err  error   // Underlying cause (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	switch {
	case e.File != "" && e.Line > 0:
		msg = fmt.Sprintf("%s (%s:%d)", msg, e.File, e.Line)
	case e.File != "":
		msg = fmt.Sprintf("%s (%s)", msg, e.File)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrParse         = &Error{Code: ErrCodeParse}
	ErrIO            = &Error{Code: ErrCodeIO}
	ErrDuplicateName = &Error{Code: ErrCodeDuplicateName}
)

func parseError(msg string, args ...any) *Error {
	return &Error{Code: ErrCodeParse, Msg: fmt.Sprintf(msg, args...)}
}

func ioError(file string, err error) *Error {
	return &Error{Code: ErrCodeIO, Msg: "failed to access fragment", File: file, Err: err}
}
