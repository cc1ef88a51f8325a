package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cryptodesk/trading-platform/internal/api/metrics"
	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

// Context keys populated by the gate for downstream handlers.
const (
	CtxSession  = "session"
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// GateConfig wires the session gate's collaborators.
type GateConfig struct {
	Codec   ports.TokenCodec
	Revoker ports.SessionRevoker
	Audit   ports.AuditRecorder
	// ExemptPaths bypass the gate entirely. A trailing "/*" matches the whole
	// subtree; anything else is an exact match.
	ExemptPaths []string
	Log         zerolog.Logger
}

// SessionGate is the per-request authorization gate. Exempt paths are decided
// first and never evaluated further. For everything else: no token or an
// invalid, expired, revoked, or unrecognized-role token denies with 401;
// a valid token with one of the three recognized roles allows and injects
// the session into the echo context.
func SessionGate(cfg GateConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if exemptPath(cfg.ExemptPaths, c.Request().URL.Path) {
				metrics.GateDecisionsTotal.WithLabelValues("exempt").Inc()
				return next(c)
			}

			token := ExtractToken(c)
			if token == "" {
				return deny(cfg, c, "", "absent")
			}

			session, err := cfg.Codec.Verify(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrUnrecognizedRole) {
					reason = "unrecognized_role"
				}
				return deny(cfg, c, "", reason)
			}

			// The codec already validated the role claim; this guards the
			// strict-membership policy even if the codec is swapped out.
			if !session.Role.Valid() {
				return deny(cfg, c, session.Username, "unrecognized_role")
			}

			if cfg.Revoker != nil {
				revoked, err := cfg.Revoker.IsRevoked(c.Request().Context(), session.TokenID)
				if err != nil {
					// Deny-list unreachable: admit the structurally valid
					// token rather than locking everyone out. Expiry still
					// bounds the exposure.
					cfg.Log.Error().Err(err).Msg("revocation check failed")
				} else if revoked {
					return deny(cfg, c, session.Username, "revoked")
				}
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			metrics.GateDecisionsTotal.WithLabelValues("allow").Inc()

			c.Set(CtxSession, session)
			c.Set(CtxUserID, session.UserID)
			c.Set(CtxUsername, session.Username)
			c.Set(CtxRole, string(session.Role))

			return next(c)
		}
	}
}

// ExtractToken pulls the session token from the cookie first, falling back to
// an Authorization bearer header for non-browser clients.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func deny(cfg GateConfig, c echo.Context, username, reason string) error {
	metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
	metrics.GateDecisionsTotal.WithLabelValues("deny").Inc()
	if cfg.Audit != nil {
		cfg.Audit.Record(domain.AuditEvent{
			Username:  username,
			Action:    domain.AuditGateDenied,
			Reason:    reason,
			RemoteIP:  c.RealIP(),
			Path:      c.Request().URL.Path,
			Timestamp: time.Now().UTC(),
		})
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

// exemptPath reports whether path matches any of the configured patterns.
func exemptPath(patterns []string, path string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
