package ports

import (
	"context"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// CredentialVerifier checks a username/password pair against an identity
// source. A nil user with a nil error is never returned: wrong credentials
// are domain.ErrInvalidCredentials, transport failures are
// domain.ErrServiceUnavailable.
//
// This is the injection seam for tests: the AuthService takes a
// CredentialVerifier at construction, so a stub replaces the real backend
// without touching the production call path.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*domain.User, error)
}
