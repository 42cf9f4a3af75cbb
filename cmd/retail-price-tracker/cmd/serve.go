package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/retail-price-tracker/internal/api"
	"github.com/donaldgifford/retail-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/retail-price-tracker/internal/engine"
	"github.com/donaldgifford/retail-price-tracker/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the price watcher and the API server",
		Long: "Runs scan cycles until interrupted, either on the configured interval or on\n" +
			"the cron schedule, and serves health probes, metrics and the JSON API.",
		RunE: runServe,
	}
}

func runServe(c *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Settings{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: Version,
		SampleRatio:    cfg.Tracing.Ratio(),
	}, log)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("flushing traces", "error", err)
		}
	}()

	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting retail-price-tracker",
		"version", Version,
		"retailers", len(a.retailers),
		"notifier", cfg.Notifier.Backend,
		"interval", cfg.Schedule.Interval,
		"cron", cfg.Schedule.Cron,
	)

	var srv *api.Server
	serverErr := make(chan error, 1)
	if cfg.Server.IsEnabled() {
		srv = api.New(api.Settings{
			Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			Version:      Version,
		}, api.Deps{
			Runner:    a.watcher,
			Readiness: a.watcher,
			Prices:    a.store,
			Targets:   handlers.TargetFunc(a.targets),
		}, log)

		go func() {
			serverErr <- srv.Start()
		}()
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- runWatcher(ctx, a)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("api server: %w", err)
		}
		stop()
	case err := <-watchErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = fmt.Errorf("watcher: %w", err)
		}
		stop()
	}

	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("shutting down api server", "error", err)
		}
	}

	log.Info("stopped")
	return runErr
}

// runWatcher drives cycles until ctx is canceled. With a cron schedule the
// first cycle runs immediately so the initial summary is not delayed until
// the first tick.
func runWatcher(ctx context.Context, a *app) error {
	if a.cfg.Schedule.Cron == "" {
		return a.watcher.Run(ctx)
	}

	sched, err := engine.NewScheduler(a.watcher, a.cfg.Schedule.Cron, a.log)
	if err != nil {
		return err
	}

	a.watcher.RunCycle(ctx)
	sched.Start(ctx)

	<-ctx.Done()
	<-sched.Stop().Done()
	return ctx.Err()
}
