package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	// CodeConfig marks a missing or contradictory secret/identifier at startup.
	// Fatal: the service cannot issue or verify anything without it.
	CodeConfig Code = "config_error"

	// CodeInvalidInput marks a caller payload missing required fields or
	// carrying wrong-typed values. Rejected before any signing or lookup work.
	CodeInvalidInput Code = "invalid_input"

	// CodeRegistryUnavailable marks a network or parse failure against the
	// remote key store. Lookups absorb it into NotFound (fail-closed); the
	// code exists for logging and readiness reporting, not for verdicts.
	CodeRegistryUnavailable Code = "registry_unavailable"

	// CodeSigningFailure marks malformed key material discovered while
	// signing. Only reachable under configuration error, never downgraded
	// to an "invalid" verdict.
	CodeSigningFailure Code = "signing_failure"

	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across reader, codec, and
// dispatcher layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
