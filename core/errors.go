package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Identity errors
var (
	ErrDuplicateIdentity = errors.New("user already exists with this email")
	ErrUserNotFound      = errors.New("user not found")

	// ErrAuthenticationFailure covers both unknown email and wrong password.
	// Callers must not distinguish the two in responses.
	ErrAuthenticationFailure = errors.New("invalid email or password")
)

// Session errors
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionStore    = errors.New("session store failure")
	ErrCacheMiss       = errors.New("session not in cache")
)

// ErrPersistence wraps any store failure that is not session-specific.
// The client only ever sees a generic message; detail stays in logs.
var ErrPersistence = errors.New("persistence failure")

// Config errors (fail-fast at startup)
var (
	ErrSecretRequired = errors.New("session secret is required")
	ErrSecretTooShort = errors.New("session secret too short")
)

// ValidationError carries field-level detail for malformed input.
// Fields maps a field name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(pairs ...string) *ValidationError {
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return &ValidationError{Fields: fields}
}
