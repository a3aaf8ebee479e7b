package wikirag

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT    = "conflict"           // action conflicts with current state
	EDIMENSION   = "dimension_mismatch" // vector dimensionality disagrees with the index
	ECORRUPT     = "corrupt_index"      // persisted index state is inconsistent
	EEMBEDDING   = "embedding"          // embedding provider failed; fatal for the query
	EINTERNAL    = "internal"           // internal error
	EINVALID     = "invalid"            // validation failed
	ENOTFOUND    = "not_found"          // entity does not exist
	EUNAVAILABLE = "unavailable"        // external content source failed; recoverable
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("wikirag error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
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
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
