// Package domainerrors provides coded, recoverable domain errors.
//
// Services raise these for expected business outcomes (not found,
// unauthorized, duplicate key). The HTTP layer translates codes to status
// codes via HTTPStatus; anything that is not a domain error is treated as an
// internal failure and its detail never leaves the process.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeInvalidInput marks structural validation failures on request data.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized marks failed authentication or a failed role check.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks an authenticated caller lacking permission.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks an id lookup miss.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a duplicate unique key on create.
	CodeConflict Code = "already_exists"
	// CodeInvalidReference marks a claimed external reference that the
	// authoritative system does not know (e.g. nik absent from the registry).
	CodeInvalidReference Code = "invalid_reference"
	// CodeInvariantViolation marks a domain invariant breach detected by a
	// model constructor or state transition.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnavailable marks a dependency that failed or timed out.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Message is safe to return to callers.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a domain error with a caller-safe message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-safe message to an underlying error. The
// cause is preserved for logging but never serialized to responses.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// non-domain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err. Non-domain errors get
// a generic message so internal detail cannot leak.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != CodeInternal {
		return de.Message
	}
	return "internal server error"
}

// HTTPStatus maps a code to its HTTP status equivalent.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeInvalidReference, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
