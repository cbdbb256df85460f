package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentials covers every authentication failure. Unknown email
// and wrong password are deliberately indistinguishable to block account
// enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken signals a duplicate email, whether caught by the service
// pre-check or by the store's unique constraint during insert.
var ErrEmailTaken = errors.New("email already in use")

var ErrUserNotFound = errors.New("user not found")
var ErrRoleNotFound = errors.New("role not found")
var ErrSessionNotFound = errors.New("session not found")

// ErrDefaultRoleMissing means the configured default role row is absent from
// the store. This is missing seed data, an operator problem, never a
// user-facing validation failure.
var ErrDefaultRoleMissing = errors.New("default role missing")

// ValidationError reports malformed input, field by field, so the client can
// fix the request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(pairs ...string) *ValidationError {
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return &ValidationError{Fields: fields}
}

// IsValidationError reports whether err is a ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
