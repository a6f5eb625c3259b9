// Package domainerrors provides coded errors for domain logic. Codes let
// transport layers map failures to responses without string matching, and
// keep engine failures distinguishable (an invalid range is not a missing
// subject).
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeInvalidInput marks caller-supplied values that violate a field-level
	// contract (unparseable date, empty territory, exit before entry).
	CodeInvalidInput Code = "invalid_input"

	// CodeInvalidRange marks a malformed date range (start after end, missing
	// reference date). Computation must not run after this is returned.
	CodeInvalidRange Code = "invalid_range"

	// CodeBadRequest marks malformed requests at the transport boundary.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks lookups for records that do not exist.
	CodeNotFound Code = "not_found"

	// CodeInvariantViolation marks state that should have been impossible to
	// construct through the public API.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks infrastructure failures (store, cache).
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping an underlying cause.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the classification of this error.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the message without any wrapped cause. Transport layers use
// this for response bodies so internal details never leak.
func (e *Error) Message() string {
	return e.message
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying error. A nil err returns nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
