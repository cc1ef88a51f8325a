package ports

import (
	"context"
	"time"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// UserRepository is the persistence contract behind the local credential
// store. Lookups are case-sensitive on username.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
