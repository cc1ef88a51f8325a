package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// RBAC enforces role-based access control on top of the session gate.
// Membership is a flat allow-set, no hierarchy: the gate already admits every
// recognized role, RBAC narrows individual route groups (e.g. admin-only).
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
