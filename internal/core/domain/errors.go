package domain

import (
	"errors"
	"strconv"
)

var ErrValidation = errors.New("validation failed")
var ErrUnauthenticated = errors.New("authentication required")

// ErrSigningKey reports a missing or too-short token signing key.
var ErrSigningKey = errors.New("token signing key is not properly configured")

// ErrTokenIssue is returned by registration when the account was stored but
// no token could be minted. The caller has to log in again.
var ErrTokenIssue = errors.New("account created but token generation failed")

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func itoa(n int) string { return strconv.Itoa(n) }
