package identity

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
)

// MongoVerifier checks credentials against the local user collection with a
// bcrypt compare. Lookup and comparison are both case-sensitive.
type MongoVerifier struct {
	users ports.UserRepository
}

func NewMongoVerifier(users ports.UserRepository) *MongoVerifier {
	return &MongoVerifier{users: users}
}

func (v *MongoVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrServiceUnavailable
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Best effort: a failed stamp must not fail the login.
	_ = v.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC())

	user.PasswordHash = ""
	return user, nil
}
