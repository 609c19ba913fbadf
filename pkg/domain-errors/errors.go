// Package domainerrors defines the coded error type shared by every feature.
//
// Services return these errors; transports map codes to status codes and
// stores stay out of it entirely (stores return sentinel errors, see
// pkg/platform/sentinel). The code is the contract: callers branch on
// HasCode, never on message text.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// CodeValidation rejects malformed domain input (bad ticker bytes,
	// oversized names, invalid granularity).
	CodeValidation Code = "validation"
	// CodeInvalidInput rejects malformed identifiers at trust boundaries.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest rejects requests missing required fields.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidRequest rejects requests whose shape cannot be processed.
	CodeInvalidRequest Code = "invalid_request"
	// CodeUnauthorized marks missing or failed authentication/authority.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks authenticated callers lacking permission.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks absent entities.
	CodeNotFound Code = "not_found"
	// CodeConflict marks state conflicts (already exists, already frozen).
	CodeConflict Code = "conflict"
	// CodeCapacityExceeded marks configured-budget violations.
	CodeCapacityExceeded Code = "capacity_exceeded"
	// CodeArithmetic marks balance or supply overflow/underflow.
	CodeArithmetic Code = "arithmetic"
	// CodeInvariantViolation marks broken domain invariants.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout marks operations that exceeded their deadline.
	CodeTimeout Code = "timeout"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error carries a stable code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
// A nil err yields a plain coded error so call sites don't need to branch.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code == code
	}
	return false
}

// Is is shorthand for HasCode; reads better in test assertions.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// so unclassified failures never masquerade as client mistakes.
func CodeOf(err error) Code {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its transport status.
func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeInvalidInput, CodeBadRequest, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeCapacityExceeded:
		return http.StatusUnprocessableEntity
	case CodeArithmetic:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
