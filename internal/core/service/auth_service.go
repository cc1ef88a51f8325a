package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
)

const defaultVerifyTimeout = 5 * time.Second

// AuthService implements login and logout. Credential verification is
// delegated to the injected CredentialVerifier; the single bounded timeout
// fails closed, a backend that cannot answer never implies an allow.
type AuthService struct {
	verifier      ports.CredentialVerifier
	codec         ports.TokenCodec
	revoker       ports.SessionRevoker
	audit         ports.AuditRecorder
	verifyTimeout time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

func NewAuthService(verifier ports.CredentialVerifier, codec ports.TokenCodec, revoker ports.SessionRevoker, audit ports.AuditRecorder, verifyTimeout time.Duration, log zerolog.Logger) *AuthService {
	if verifyTimeout <= 0 {
		verifyTimeout = defaultVerifyTimeout
	}
	return &AuthService{
		verifier:      verifier,
		codec:         codec,
		revoker:       revoker,
		audit:         audit,
		verifyTimeout: verifyTimeout,
		log:           log,
		now:           time.Now,
	}
}

// Login verifies the credentials and mints a session token. Wrong credentials
// surface as domain.ErrInvalidCredentials without revealing which field was
// wrong; an unreachable or slow backend surfaces as
// domain.ErrServiceUnavailable.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrMalformedRequest
	}

	verifyCtx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	user, err := s.verifier.Verify(verifyCtx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
			s.record(domain.AuditEvent{Username: username, Action: domain.AuditLoginFailure, Reason: "invalid_credentials"})
			return "", nil, domain.ErrInvalidCredentials
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrServiceUnavailable):
			s.log.Error().Err(err).Str("username", username).Msg("identity backend unavailable")
			s.record(domain.AuditEvent{Username: username, Action: domain.AuditLoginFailure, Reason: "backend_unavailable"})
			return "", nil, domain.ErrServiceUnavailable
		default:
			return "", nil, err
		}
	}

	user.LastLogin = s.now().UTC()

	token, err := s.codec.Issue(user)
	if err != nil {
		// A backend record with a role outside the closed enum must never
		// produce a session.
		s.log.Error().Err(err).Str("username", username).Str("role", string(user.Role)).Msg("refusing token for user")
		return "", nil, err
	}

	s.record(domain.AuditEvent{Username: username, Action: domain.AuditLoginSuccess})
	return token, user, nil
}

// Logout revokes the session's token id for its remaining lifetime. The
// cookie itself is cleared at the handler; revocation closes the replay gap
// for the still-unexpired token.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil || session.TokenID == "" {
		return nil
	}
	ttl := Remaining(session, s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, session.TokenID, ttl); err != nil {
		return err
	}
	s.record(domain.AuditEvent{Username: session.Username, Action: domain.AuditLogout})
	return nil
}

func (s *AuthService) record(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	s.audit.Record(event)
}
