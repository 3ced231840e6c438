// Package common defines shared constants and sentinel errors used across
// server and client layers of taskkeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. Specific kinds wrap ErrorValidation.
	ErrorValidation     = errors.New("validation error")
	ErrEmptyUsername    = fmt.Errorf("%w: empty username", ErrorValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: empty password", ErrorValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password too short", ErrorValidation)
	ErrEmptySubject     = fmt.Errorf("%w: empty subject", ErrorValidation)

	// ErrKDFUnavailable is returned when no key derivation worker became free
	// before the deadline. Callers may retry.
	ErrKDFUnavailable = errors.New("key derivation unavailable")

	// Auth errors. Every token failure wraps ErrInvalidToken plus one of the
	// specific kinds below.
	ErrInvalidToken     = errors.New("invalid token")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")

	// Configuration errors, fatal at start-up.
	ErrMissingSecret = errors.New("signing secret is not configured")
	ErrInvalidConfig = errors.New("invalid configuration")
)
