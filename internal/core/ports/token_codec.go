package ports

import (
	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// TokenCodec mints and verifies signed session tokens. Both operations are
// pure functions of their inputs and the current time, no I/O.
type TokenCodec interface {
	// Issue encodes user into a signed, time-bounded token. It refuses a user
	// whose role is outside the closed enum with domain.ErrUnrecognizedRole.
	Issue(user *domain.User) (string, error)

	// Verify decodes and validates a token. It returns domain.ErrTokenInvalid
	// for malformed, badly signed, or expired tokens and
	// domain.ErrUnrecognizedRole for a role claim outside the closed enum.
	Verify(token string) (*domain.Session, error)
}
