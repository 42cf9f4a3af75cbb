// Package api assembles the operational HTTP API: probes, Prometheus
// metrics and the JSON endpoints documented through Huma.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/retail-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/retail-price-tracker/internal/api/middleware"
)

// Deps are the collaborators the API exposes.
type Deps struct {
	Runner    handlers.CycleRunner
	Readiness handlers.ReadinessChecker
	Prices    handlers.PriceLister
	Targets   handlers.TargetResolver
}

// Settings configure the listener.
type Settings struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// Server wraps the Echo instance serving the API.
type Server struct {
	echo     *echo.Echo
	settings Settings
	log      *slog.Logger
}

// New builds the API server and registers every route.
func New(s Settings, d Deps, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = s.ReadTimeout
	e.Server.WriteTimeout = s.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(d.Readiness)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("retail-price-tracker", s.Version))
	handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(d.Prices))
	handlers.RegisterRetailerRoutes(api, handlers.NewRetailersHandler(d.Targets))
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(d.Runner))

	return &Server{echo: e, settings: s, log: log}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens until Shutdown is called. It returns nil on a clean
// shutdown.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.settings.Addr)
	if err := s.echo.Start(s.settings.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
