package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/donaldgifford/retail-price-tracker/internal/config"
	"github.com/donaldgifford/retail-price-tracker/internal/engine"
	"github.com/donaldgifford/retail-price-tracker/internal/fetch"
	"github.com/donaldgifford/retail-price-tracker/internal/notify"
	"github.com/donaldgifford/retail-price-tracker/internal/store"
	"github.com/donaldgifford/retail-price-tracker/pkg/extract"
	"github.com/donaldgifford/retail-price-tracker/pkg/logger"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// app holds the wired components shared by serve and scan.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	registry  *extract.Registry
	retailers []domain.Retailer
	store     *store.MemoryStore
	notifier  notify.Notifier
	scanner   *engine.Scanner
	watcher   *engine.Watcher
}

// loadConfig reads the config file and builds the logger, applying the
// --log-level and --log-format overrides.
func loadConfig(opts ...config.LoadOption) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if v := viper.GetString("log_level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("log_format"); v != "" {
		cfg.Logging.Format = v
	}

	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

// newRegistry registers one extractor per configured retailer.
func newRegistry(retailers []config.RetailerConfig) (*extract.Registry, error) {
	reg := extract.NewRegistry()
	for i := range retailers {
		rc := &retailers[i]
		ex, err := extract.New(extract.URLScheme(rc.Scheme), rc.PriceSelector)
		if err != nil {
			return nil, fmt.Errorf("retailer %s: %w", rc.Name, err)
		}
		if err := reg.Register(rc.Name, ex); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func newTransport(fc *config.FetchConfig) fetch.Transport {
	if fc.Transport == "colly" {
		return fetch.NewCollyTransport(fc.UserAgent, fc.Timeout)
	}
	opts := []fetch.HTTPOption{fetch.WithTimeout(fc.Timeout)}
	if fc.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(fc.UserAgent))
	}
	return fetch.NewHTTPTransport(opts...)
}

func newFetcher(fc *config.FetchConfig, log *slog.Logger) *fetch.Client {
	opts := []fetch.Option{
		fetch.WithRetry(fc.MaxAttempts, fc.RetryDelay),
		fetch.WithLogger(log),
	}
	if fc.RequestsPerSecond > 0 {
		opts = append(opts, fetch.WithRateLimit(fc.RequestsPerSecond, fc.Burst))
	}
	return fetch.NewClient(newTransport(fc), opts...)
}

// buildApp wires the scan pipeline from cfg.
func buildApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	reg, err := newRegistry(cfg.Retailers)
	if err != nil {
		return nil, err
	}

	n, err := notify.New(notify.Settings{
		Backend:  cfg.Notifier.Backend,
		Endpoint: cfg.Notifier.Endpoint,
		Timeout:  cfg.Notifier.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}

	retailers := make([]domain.Retailer, 0, len(cfg.Retailers))
	for i := range cfg.Retailers {
		retailers = append(retailers, cfg.Retailers[i].Retailer())
	}

	st := store.NewMemoryStore()
	sc := engine.NewScanner(newFetcher(&cfg.Fetch, log), reg, st, n,
		engine.WithConcurrency(cfg.Fetch.Concurrency),
		engine.WithScannerLogger(log),
	)
	w := engine.NewWatcher(sc, retailers, n,
		engine.WithLogger(log),
		engine.WithInterval(cfg.Schedule.Interval),
		engine.WithSummaryHour(cfg.Schedule.Hour()),
	)

	return &app{
		cfg:       cfg,
		log:       log,
		registry:  reg,
		retailers: retailers,
		store:     st,
		notifier:  n,
		scanner:   sc,
		watcher:   w,
	}, nil
}

// targets resolves variant URLs for the configured retailers.
func (a *app) targets() []domain.RetailerTargets {
	return a.registry.Targets(a.retailers)
}
