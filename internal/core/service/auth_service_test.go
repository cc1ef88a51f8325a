package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

type stubVerifier struct {
	verifyFn func(ctx context.Context, username, password string) (*domain.User, error)
	calls    int
}

func (s *stubVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	s.calls++
	return s.verifyFn(ctx, username, password)
}

type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (s *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingAudit) Record(event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func newAuthService(verifier *stubVerifier, revoker *stubRevoker, audit *recordingAudit) *AuthService {
	codec := NewTokenService("secret", time.Hour)
	return NewAuthService(verifier, codec, revoker, audit, time.Second, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(_ context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "correct" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleTrader}, nil
		},
	}
	audit := &recordingAudit{}
	svc := newAuthService(verifier, newStubRevoker(), audit)

	token, user, err := svc.Login(context.Background(), "alice", "correct")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.LastLogin.IsZero() {
		t.Fatalf("expected LastLogin to be stamped")
	}

	session, err := svc.codec.Verify(token)
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if session.Role != domain.RoleTrader {
		t.Fatalf("expected role TRADER, got %s", session.Role)
	}

	actions := audit.actions()
	if len(actions) != 1 || actions[0] != domain.AuditLoginSuccess {
		t.Fatalf("unexpected audit actions: %v", actions)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	svc := newAuthService(verifier, newStubRevoker(), &recordingAudit{})

	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// An unknown user collapses into the same generic failure as a wrong
// password: the error never reveals which factor was wrong.
func TestAuthService_Login_UnknownUserIndistinguishable(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	svc := newAuthService(verifier, newStubRevoker(), &recordingAudit{})

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MalformedRejectedBeforeBackend(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatalf("verifier should not be called")
			return nil, nil
		},
	}
	svc := newAuthService(verifier, newStubRevoker(), &recordingAudit{})

	for _, pair := range [][2]string{{"", "pass"}, {"alice", ""}, {"", ""}} {
		if _, _, err := svc.Login(context.Background(), pair[0], pair[1]); !errors.Is(err, domain.ErrMalformedRequest) {
			t.Fatalf("Login(%q, %q): expected ErrMalformedRequest, got %v", pair[0], pair[1], err)
		}
	}
	if verifier.calls != 0 {
		t.Fatalf("backend called %d times for malformed input", verifier.calls)
	}
}

func TestAuthService_Login_BackendUnavailable(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrServiceUnavailable
		},
	}
	svc := newAuthService(verifier, newStubRevoker(), &recordingAudit{})

	if _, _, err := svc.Login(context.Background(), "alice", "pass"); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

// A backend that never answers fails closed once the bounded timeout expires.
func TestAuthService_Login_BackendTimeout(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(ctx context.Context, _, _ string) (*domain.User, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	codec := NewTokenService("secret", time.Hour)
	svc := NewAuthService(verifier, codec, newStubRevoker(), &recordingAudit{}, 10*time.Millisecond, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "alice", "pass"); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable on timeout, got %v", err)
	}
}

// A backend record carrying a role outside the closed enum must never become
// a session.
func TestAuthService_Login_RefusesUnrecognizedRole(t *testing.T) {
	verifier := &stubVerifier{
		verifyFn: func(context.Context, string, string) (*domain.User, error) {
			return &domain.User{ID: "u-2", Username: "eve", Role: "SUPERUSER"}, nil
		},
	}
	svc := newAuthService(verifier, newStubRevoker(), &recordingAudit{})

	token, _, err := svc.Login(context.Background(), "eve", "pass")
	if !errors.Is(err, domain.ErrUnrecognizedRole) {
		t.Fatalf("expected ErrUnrecognizedRole, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}
}

func TestAuthService_Logout_RevokesRemainingLifetime(t *testing.T) {
	revoker := newStubRevoker()
	svc := newAuthService(&stubVerifier{}, revoker, &recordingAudit{})

	session := &domain.Session{
		Username:  "alice",
		TokenID:   "tok-1",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	if err := svc.Logout(context.Background(), session); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	ttl, ok := revoker.revoked["tok-1"]
	if !ok {
		t.Fatalf("token not revoked")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("unexpected revocation ttl: %v", ttl)
	}
}

func TestAuthService_Logout_ExpiredSessionNoop(t *testing.T) {
	revoker := newStubRevoker()
	svc := newAuthService(&stubVerifier{}, revoker, &recordingAudit{})

	session := &domain.Session{
		Username:  "alice",
		TokenID:   "tok-2",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := svc.Logout(context.Background(), session); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := revoker.revoked["tok-2"]; ok {
		t.Fatalf("expired session should not be revoked")
	}
}
