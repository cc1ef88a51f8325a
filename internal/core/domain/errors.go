package domain

import "errors"

var (
	// ErrInvalidCredentials covers every wrong username/password combination.
	// It deliberately carries no hint of which factor failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrServiceUnavailable means the identity backend could not be reached
	// or timed out. Distinct from ErrInvalidCredentials so operators can tell
	// outages apart from bad logins.
	ErrServiceUnavailable = errors.New("authentication service temporarily unavailable")

	// ErrMalformedRequest means a login submission was missing a field and is
	// rejected before any backend call is made.
	ErrMalformedRequest = errors.New("username and password are required")

	// ErrTokenInvalid covers expired, unsigned, and malformed session tokens.
	ErrTokenInvalid = errors.New("session token invalid")

	// ErrUnrecognizedRole means a role value outside the closed enum. Treated
	// the same as ErrTokenInvalid at the gate: such a token is never trusted.
	ErrUnrecognizedRole = errors.New("unrecognized role")

	ErrUserNotFound = errors.New("user not found")
)
