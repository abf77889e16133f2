package domain

import (
	"errors"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDisabled = errors.New("account is disabled")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrTransactionNotFound = errors.New("transaction not found")
var ErrRateLimited = errors.New("too many requests")

// ValidationError carries one or more field-level validation messages and
// maps to a 400 response at the API boundary.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}
