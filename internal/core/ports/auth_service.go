package ports

import (
	"context"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, session *domain.Session) error
}
