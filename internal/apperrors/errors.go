package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories and services.
var (
	// ErrNotFound signals that a record the caller expected to exist is absent.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrActingUserRequired signals a mutating repository call without a bound acting user.
	ErrActingUserRequired = errors.New("acting user is not present")
	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// ValidationError represents malformed or missing input fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidFieldError signals an attribute the record type does not recognize
// during checked assignment. It is handled as a validation failure.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("campo desconocido: %s", e.Field)
}

// InvalidField builds an InvalidFieldError for the given attribute.
func InvalidField(field string) error {
	return &InvalidFieldError{Field: field}
}

// QueryError wraps a store-level failure, preserving the original cause for
// diagnostics while the response layer surfaces only a short message.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("exception in %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Query wraps err as a persistence failure that occurred during op.
func Query(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}

// AuthorizationError represents a caller lacking permission.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// Authorization builds an AuthorizationError from a format string.
func Authorization(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// MethodNotAllowedError represents an HTTP method the route does not support.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("método no permitido: %s", e.Method)
}

// RateLimitError represents a throttled caller.
type RateLimitError struct {
	Msg string
}

func (e *RateLimitError) Error() string { return e.Msg }
