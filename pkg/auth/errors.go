package auth

import (
	"errors"
	"fmt"
)

// Kind classifies an auth failure so the pages can branch on it instead of
// matching provider message text.
type Kind string

const (
	KindAlreadyRegistered  Kind = "already_registered"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindRateLimited        Kind = "rate_limited"
	KindUnknown            Kind = "unknown"
)

// Messages shown for each kind.
const (
	MessageAlreadyRegistered  = "This email is already registered. Please login instead."
	MessageInvalidCredentials = "Invalid email or password. Please try again."
	MessageRateLimited        = "Too many sign-in attempts. Please wait a moment and try again."
	MessageUnknown            = "Something went wrong. Please try again."
)

// Error is returned by every Service method.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "auth: error"
	}
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the Kind of err. Non-auth errors report KindUnknown.
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) && authErr != nil {
		return authErr.Kind
	}
	return KindUnknown
}

// Message maps err to the sentence shown to the citizen. Errors that carry
// their own user-facing text (validation errors) are passed through.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var authErr *Error
	if !errors.As(err, &authErr) {
		return err.Error()
	}
	switch authErr.Kind {
	case KindAlreadyRegistered:
		return MessageAlreadyRegistered
	case KindInvalidCredentials:
		return MessageInvalidCredentials
	case KindRateLimited:
		return MessageRateLimited
	default:
		return MessageUnknown
	}
}
