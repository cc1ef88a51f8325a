package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/service"
)

type memRevoker struct {
	revoked map[string]bool
	err     error
}

func (m *memRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.revoked[tokenID] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.revoked[tokenID], nil
}

func gateConfig(codec *service.TokenService, revoker *memRevoker) GateConfig {
	return GateConfig{
		Codec:       codec,
		Revoker:     revoker,
		ExemptPaths: []string{"/auth/login", "/health", "/static/*"},
		Log:         zerolog.Nop(),
	}
}

func runGate(t *testing.T, cfg GateConfig, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := SessionGate(cfg)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestSessionGate_ValidTokenAllows(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)
	token, err := codec.Issue(&domain.User{ID: "u-1", Username: "alice", Role: domain.RoleViewer})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := SessionGate(gateConfig(codec, &memRevoker{revoked: map[string]bool{}}))
	handler := mw(func(c echo.Context) error {
		if c.Get(CtxUsername) != "alice" {
			t.Fatalf("username not injected")
		}
		if c.Get(CtxRole) != "VIEWER" {
			t.Fatalf("role not injected, got %v", c.Get(CtxRole))
		}
		session, _ := c.Get(CtxSession).(*domain.Session)
		if session == nil || session.UserID != "u-1" {
			t.Fatalf("session not injected: %+v", session)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionGate_BearerFallback(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)
	token, _ := codec.Issue(&domain.User{ID: "u-1", Username: "alice", Role: domain.RoleTrader})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, called := runGate(t, gateConfig(codec, &memRevoker{revoked: map[string]bool{}}), req)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionGate_NoTokenDenies(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	rec, called := runGate(t, gateConfig(codec, &memRevoker{revoked: map[string]bool{}}), req)
	if called {
		t.Fatalf("next should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionGate_InvalidTokenDenies(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})

	rec, called := runGate(t, gateConfig(codec, &memRevoker{revoked: map[string]bool{}}), req)
	if called {
		t.Fatalf("next should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// Exact, case-sensitive role membership: a well-signed token carrying role
// "admin" is denied even though "ADMIN" is accepted.
func TestSessionGate_LowercaseRoleDenies(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)

	claims := jwt.MapClaims{
		"sub":      "u-1",
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec, called := runGate(t, gateConfig(codec, &memRevoker{revoked: map[string]bool{}}), req)
	if called {
		t.Fatalf("next should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionGate_ExpiredTokenDenies(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)

	claims := jwt.MapClaims{
		"sub":      "u-1",
		"username": "alice",
		"role":     "ADMIN",
		"iat":      time.Now().Add(-2 * time.Hour).Unix(),
		"exp":      time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec, called := runGate(t, gateConfig(codec, &memRevoker{revoked: map[string]bool{}}), req)
	if called {
		t.Fatalf("next should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionGate_RevokedTokenDenies(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)
	token, _ := codec.Issue(&domain.User{ID: "u-1", Username: "alice", Role: domain.RoleAdmin})
	session, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	revoker := &memRevoker{revoked: map[string]bool{session.TokenID: true}}
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec, called := runGate(t, gateConfig(codec, revoker), req)
	if called {
		t.Fatalf("next should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionGate_ExemptPathBypasses(t *testing.T) {
	codec := service.NewTokenService("secret", time.Hour)
	cfg := gateConfig(codec, &memRevoker{revoked: map[string]bool{}})

	for _, path := range []string{"/auth/login", "/health", "/static/app.js", "/static/css/site.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec, called := runGate(t, cfg, req)
		if !called {
			t.Fatalf("%s: next not called", path)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestExemptPath(t *testing.T) {
	patterns := []string{"/auth/login", "/static/*"}

	cases := []struct {
		path string
		want bool
	}{
		{"/auth/login", true},
		{"/auth/login/extra", false},
		{"/auth/logins", false},
		{"/static", true},
		{"/static/app.js", true},
		{"/staticfile", false},
		{"/api/portfolio", false},
	}
	for _, tc := range cases {
		if got := exemptPath(patterns, tc.path); got != tc.want {
			t.Fatalf("exemptPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
