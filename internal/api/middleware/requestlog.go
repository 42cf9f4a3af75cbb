package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLog logs one line per request and tags it with a request ID,
// taken from X-Request-ID or generated, echoed back in the response.
// Successful probes are logged once per path; failing probes always are.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var probed sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(requestIDHeader, id)

			err := next(c)

			status := c.Response().Status
			failed := status >= 400
			if isProbe(req.URL.Path) && !failed {
				if _, seen := probed.LoadOrStore(req.URL.Path, struct{}{}); seen {
					return err
				}
			}

			level := slog.LevelInfo
			if failed {
				level = slog.LevelWarn
			}
			log.Log(req.Context(), level, "request",
				"method", req.Method,
				"path", req.URL.Path,
				"route", route(c),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", id,
			)
			return err
		}
	}
}

// RequestID returns the ID RequestLog stored on c.
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
