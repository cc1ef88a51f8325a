package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cryptodesk/trading-platform/internal/api/handler"
	"github.com/cryptodesk/trading-platform/internal/api/middleware"
	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
	healthhandlers "github.com/cryptodesk/trading-platform/internal/infrastructure/http/handlers"
)

// Deps carries the resolved collaborators for the router. Every reference is
// constructed once at startup; tests substitute stubs here instead of
// swapping globals.
type Deps struct {
	AuthService  ports.AuthService
	Codec        ports.TokenCodec
	Revoker      ports.SessionRevoker
	Audit        ports.AuditRecorder
	SessionTTL   time.Duration
	SecureCookie bool

	// Mongo and Redis back the readiness probe; either may be nil in tests,
	// in which case only the liveness probe is registered.
	Mongo *mongo.Database
	Redis *redis.Client

	Log zerolog.Logger
}

// exemptPaths enumerates every route that bypasses the session gate. The list
// is explicit: anything not named here is protected, there is no default
// allow.
func exemptPaths() []string {
	return []string{
		"/auth/login",
		"/auth/logout",
		"/auth/session",
		"/health",
		"/health/ready",
		"/metrics",
		"/login",
		"/static/*",
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("trading"))
	e.Use(middleware.SessionGate(middleware.GateConfig{
		Codec:       deps.Codec,
		Revoker:     deps.Revoker,
		Audit:       deps.Audit,
		ExemptPaths: exemptPaths(),
		Log:         deps.Log,
	}))

	// --- Session endpoints (exempt: reachable without a session) ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Codec, deps.Revoker, deps.SessionTTL, deps.SecureCookie)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Login page and static assets (phase 0 placeholders) ---
	e.GET("/login", loginPage)
	e.Static("/static", "web/static")

	// --- Protected dashboard routes ---
	dashboard := handler.NewDashboardHandler()
	apiGroup := e.Group("/api")
	apiGroup.GET("/portfolio", dashboard.Portfolio)
	apiGroup.GET("/performance", dashboard.Performance)
	apiGroup.GET("/risk", dashboard.Risk)
	apiGroup.GET("/signals", dashboard.Signals)

	// --- Admin-only operations ---
	admin := apiGroup.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.POST("/revoke", authHandler.Revoke)

	// --- Observability (exempt) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (exempt) ---
	healthHandler := healthhandlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if deps.Mongo != nil && deps.Redis != nil {
		readiness := healthhandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
		e.GET("/health/ready", readiness.Readiness)
	}

	return e
}

// loginPage serves the phase-0 login form shell. The real client lives in the
// web frontend; this keeps the exempt route reachable for browser flows.
func loginPage(c echo.Context) error {
	const page = `<!doctype html><title>Sign in</title><h1>Trading Platform</h1>` +
		`<form method="post" action="/auth/login">` +
		`<input name="username" placeholder="username" autocomplete="username">` +
		`<input name="password" type="password" placeholder="password" autocomplete="current-password">` +
		`<button type="submit">Sign in</button></form>`
	return c.HTML(http.StatusOK, page)
}
