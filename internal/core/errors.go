package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers unauthenticated writes and cross-user access.
	// Callers only ever see this opaque value, never the underlying cause.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned for single-row reads of rows that should exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a missing or malformed field on a write.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransportError wraps a network or decode failure reaching the data plane.
// It is never retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
