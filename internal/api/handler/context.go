package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptodesk/trading-platform/internal/api/middleware"
	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// ctxSession extracts the session injected by the gate and performs a
// fast-fail check before any service call: presence proves the middleware
// ran on this route.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get(middleware.CtxSession).(*domain.Session)
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return session, nil
}
