package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the phase-0 dashboard endpoints. The payloads are
// scaffold placeholders; the routes exist so the session gate protects the
// same surface the finished platform will have.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type placeholderResponse struct {
	Page    string `json:"page"`
	Phase   int    `json:"phase"`
	Message string `json:"message"`
	Viewer  string `json:"viewer"`
}

func (h *DashboardHandler) placeholder(c echo.Context, page string) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placeholderResponse{
		Page:    page,
		Phase:   0,
		Message: "coming soon",
		Viewer:  session.Username,
	})
}

// Portfolio returns the portfolio page scaffold.
//
// @Summary      Portfolio (phase 0)
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  placeholderResponse
// @Router       /api/portfolio [get]
func (h *DashboardHandler) Portfolio(c echo.Context) error {
	return h.placeholder(c, "portfolio")
}

// Performance returns the performance page scaffold.
//
// @Summary      Performance (phase 0)
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  placeholderResponse
// @Router       /api/performance [get]
func (h *DashboardHandler) Performance(c echo.Context) error {
	return h.placeholder(c, "performance")
}

// Risk returns the risk page scaffold.
//
// @Summary      Risk (phase 0)
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  placeholderResponse
// @Router       /api/risk [get]
func (h *DashboardHandler) Risk(c echo.Context) error {
	return h.placeholder(c, "risk")
}

// Signals returns the signal-generation page scaffold.
//
// @Summary      Signals (phase 0)
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  placeholderResponse
// @Router       /api/signals [get]
func (h *DashboardHandler) Signals(c echo.Context) error {
	return h.placeholder(c, "signals")
}
