package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

const defaultSessionTTL = 8 * time.Hour

// sessionClaims is the full claim set carried by a session token.
type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService implements the session token codec: HS256-signed JWTs whose
// claims are exactly subject id, username, role, issued-at, expiry, and a
// token id used by the revocation deny-list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue encodes user into a signed token. A user with a role outside the
// closed enum must never produce a valid token.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if !user.Role.Valid() {
		return "", domain.ErrUnrecognizedRole
	}

	now := s.now().UTC()
	claims := sessionClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify decodes token and maps its claims into a session view. The mapping
// keeps subject id, username, and role; claims not listed here are dropped.
func (s *TokenService) Verify(token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     role,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// TTL returns the configured session lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Remaining reports how long session is still valid, clamped at zero.
func Remaining(session *domain.Session, now time.Time) time.Duration {
	if session.ExpiresAt.IsZero() {
		return 0
	}
	d := session.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
