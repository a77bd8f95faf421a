package carefacts

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic enough for callers to branch on category
// without inspecting message text. Codes map onto transport-level errors
// (HTTP status, exit codes) at the service boundary, which is out of scope
// for this package.
const (
	ECONFLICT     = "conflict"                 // action conflicts with current state
	EINTERNAL     = "internal"                 // internal error
	EINVALID      = "invalid"                  // validation failed (incl. pagination)
	ENOTFOUND     = "not_found"                // entity does not exist
	ETAXONOMY     = "malformed_taxonomy"       // taxonomy definition is invalid
	EUNKNOWNLABEL = "unknown_taxonomy_label"   // label not in the loaded registry
	EUNSUPPORTED  = "unsupported_content_type" // content type outside the recognized set
)

// Error represents an application-specific error. Errors can be unwrapped to
// their root cause via errors.Unwrap.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string

	// Wrapped error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("carefacts error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("carefacts error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code. Non-application
// errors always return EINTERNAL; a nil error returns an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns "".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper for constructing an Error with a formatted message.
// A %w verb wraps its cause, reachable via errors.Unwrap.
func Errorf(code string, format string, args ...any) *Error {
	formatted := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: formatted.Error(),
		Err:     errors.Unwrap(formatted),
	}
}
