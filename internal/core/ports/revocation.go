package ports

import (
	"context"
	"time"
)

// SessionRevoker is the deny-list consulted by the gate after signature and
// expiry checks. Sign-out is otherwise purely client-side cookie deletion;
// revocation closes the gap for still-unexpired tokens.
type SessionRevoker interface {
	// Revoke marks tokenID as revoked until ttl elapses (the remaining token
	// lifetime is enough, the signature check already bounds it).
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether tokenID is on the deny-list.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
