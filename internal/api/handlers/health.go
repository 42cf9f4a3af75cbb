package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadinessChecker reports whether the service has completed its first
// scan cycle.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(r ReadinessChecker) *HealthHandler {
	return &HealthHandler{ready: r}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, ProbeResponse{Status: "ok"})
}

// Readyz returns 200 once the first scan cycle has completed, 503 before.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.ready.Ready() {
		return c.JSON(http.StatusServiceUnavailable, ProbeResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, ProbeResponse{Status: "ready"})
}
