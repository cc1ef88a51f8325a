package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cryptodesk/trading-platform/internal/api/metrics"
	"github.com/cryptodesk/trading-platform/internal/api/middleware"
	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
)

// AuthHandler exposes the session endpoints. All three routes are exempt from
// the session gate: clients must be able to reach them to establish or clear
// a session.
type AuthHandler struct {
	authService  ports.AuthService
	codec        ports.TokenCodec
	revoker      ports.SessionRevoker
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, codec ports.TokenCodec, revoker ports.SessionRevoker, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		codec:        codec,
		revoker:      revoker,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates a user and establishes a cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("malformed").Inc()
		return domain.ErrMalformedRequest
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("malformed").Inc()
		return domain.ErrMalformedRequest
	}

	start := time.Now()
	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	metrics.AuthBackendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrServiceUnavailable):
			metrics.LoginsTotal.WithLabelValues("backend_unavailable").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("malformed").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout clears the session cookie and revokes the presented token for its
// remaining lifetime. Always succeeds: logging out with no or an invalid
// token is a no-op, not an error.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.ExtractToken(c); token != "" {
		if session, err := h.codec.Verify(token); err == nil {
			_ = h.authService.Logout(c.Request().Context(), session)
		}
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Session introspects the presented token and returns the session view, or
// 401 when no valid session is present. Exempt from the gate so anonymous
// clients can probe their state.
//
// @Summary      Session introspection
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Session
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return domain.ErrTokenInvalid
	}

	session, err := h.codec.Verify(token)
	if err != nil {
		return err
	}

	if h.revoker != nil {
		if revoked, err := h.revoker.IsRevoked(c.Request().Context(), session.TokenID); err == nil && revoked {
			return domain.ErrTokenInvalid
		}
	}

	return c.JSON(http.StatusOK, session)
}

type revokeRequest struct {
	TokenID string `json:"token_id" validate:"required"`
}

// Revoke force-revokes a session token by id. Admin-only (RBAC); used to cut
// off a still-unexpired session after a role change or compromise.
//
// @Summary      Revoke a session
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  revokeRequest  true  "Token id to revoke"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/revoke [post]
func (h *AuthHandler) Revoke(c echo.Context) error {
	var req revokeRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrMalformedRequest
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrMalformedRequest
	}

	// The deny-list entry only needs to outlive the longest possible token.
	if err := h.revoker.Revoke(c.Request().Context(), req.TokenID, h.sessionTTL); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
