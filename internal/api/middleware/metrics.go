// Package middleware holds the Echo middleware in front of the tracker API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
)

// probeGauges maps the orchestrator probe paths to the gauge holding their
// last outcome.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

func isProbe(path string) bool {
	_, ok := probeGauges[path]
	return ok
}

// route labels a request by its route template so query strings and path
// parameters do not fan out series.
func route(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}

// Metrics records API request duration and count. Probe requests only set
// their gauge and /metrics scrapes are not recorded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			if g, ok := probeGauges[path]; ok {
				g.Set(boolGauge(status >= 200 && status < 300))
				return err
			}
			if path == "/metrics" {
				return err
			}

			labels := prometheus.Labels{
				"method": c.Request().Method,
				"path":   route(c),
				"status": strconv.Itoa(status),
			}
			metrics.HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.With(labels).Inc()
			return err
		}
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
