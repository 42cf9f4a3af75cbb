// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// Environment variables overlaid on top of the YAML file.
const (
	EnvMessageAPI      = "MESSAGE_API"
	EnvScrapeFrequency = "SCRAPE_FREQUENCY_IN_SECONDS"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Fetch     FetchConfig      `yaml:"fetch"`
	Schedule  ScheduleConfig   `yaml:"schedule"`
	Notifier  NotifierConfig   `yaml:"notifier"`
	Tracing   TracingConfig    `yaml:"tracing"`
	Logging   LoggingConfig    `yaml:"logging"`
	Retailers []RetailerConfig `yaml:"retailers" validate:"min=1,unique=Name,dive"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Enabled      *bool         `yaml:"enabled"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// IsEnabled reports whether the HTTP server should run. Defaults to true.
func (s *ServerConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// FetchConfig defines page retrieval settings.
type FetchConfig struct {
	Transport         string        `yaml:"transport" validate:"oneof=http colly"`
	MaxAttempts       int           `yaml:"max_attempts" validate:"min=1"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	Concurrency       int           `yaml:"concurrency" validate:"min=1"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"min=0"`
	Burst             int           `yaml:"burst" validate:"min=0"`
}

// ScheduleConfig defines cycle pacing.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Cron, when set, drives cycles instead of the fixed interval loop.
	Cron        string `yaml:"cron"`
	SummaryHour *int   `yaml:"summary_hour" validate:"omitnil,min=0,max=23"`
}

// Hour returns the daily summary hour.
func (s *ScheduleConfig) Hour() int {
	if s.SummaryHour == nil {
		return 8
	}
	return *s.SummaryHour
}

// NotifierConfig defines where notifications are delivered.
type NotifierConfig struct {
	Backend  string        `yaml:"backend" validate:"oneof=message_api discord noop"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TracingConfig defines OTLP trace export settings.
type TracingConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Endpoint    string   `yaml:"endpoint"`
	Insecure    bool     `yaml:"insecure"`
	ServiceName string   `yaml:"service_name"`
	SampleRatio *float64 `yaml:"sample_ratio" validate:"omitnil,min=0,max=1"`
}

// Ratio returns the trace sampling ratio. Unset samples everything.
func (t *TracingConfig) Ratio() float64 {
	if t.SampleRatio == nil {
		return 1
	}
	return *t.SampleRatio
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// RetailerConfig describes one tracked retailer.
type RetailerConfig struct {
	Name          string   `yaml:"name" validate:"required"`
	BaseURL       string   `yaml:"base_url" validate:"required,http_url"`
	Scheme        string   `yaml:"scheme" validate:"required,oneof=path slug"`
	PriceSelector string   `yaml:"price_selector" validate:"required"`
	Variants      []string `yaml:"variants" validate:"min=1,unique,dive,required"`
}

// Retailer converts rc to the domain type.
func (rc *RetailerConfig) Retailer() domain.Retailer {
	return domain.Retailer{
		Name:     rc.Name,
		BaseURL:  rc.BaseURL,
		Variants: append([]string(nil), rc.Variants...),
	}
}

// DefaultRetailers returns the built-in retailer set used when the config
// names none.
func DefaultRetailers() []RetailerConfig {
	return []RetailerConfig{
		{
			Name:          "uppababy.ca",
			BaseURL:       "https://uppababy.ca/strollers/full-size/vista-v3-stroller",
			Scheme:        "path",
			PriceSelector: "bdi",
			Variants: []string{
				"callum", "declan", "greyson", "gwen",
				"jake", "kenzi", "savannah", "theo",
			},
		},
		{
			Name:          "clement.ca",
			BaseURL:       "https://www.clement.ca/en/stroller-vista-v3",
			Scheme:        "slug",
			PriceSelector: "span.price",
			Variants: []string{
				"callum-1086856", "declan-1086857", "greyson-1086858", "gwen-1086860",
				"jake-1086862", "kenzi-1086863", "savannah-1086865", "theo-1086864",
			},
		},
	}
}

// LoadOption adjusts the configuration after the environment overlay and
// before defaults and validation.
type LoadOption func(*Config)

// WithNotifierBackend forces the notifier backend regardless of the file
// and environment. One-shot commands use it to run without an endpoint.
func WithNotifierBackend(backend string) LoadOption {
	return func(c *Config) {
		c.Notifier.Backend = backend
	}
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. An empty path skips the file and yields the
// built-in configuration with the environment overlay applied.
func Load(path string, opts ...LoadOption) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in the YAML content.
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(cfg)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvMessageAPI); ok && v != "" {
		cfg.Notifier.Endpoint = v
	}

	if v, ok := os.LookupEnv(EnvScrapeFrequency); ok && v != "" {
		secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvScrapeFrequency, err)
		}
		if secs <= 0 {
			return fmt.Errorf("%s must be positive (got %v)", EnvScrapeFrequency, secs)
		}
		cfg.Schedule.Interval = time.Duration(secs * float64(time.Second))
	}

	return nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyFetchDefaults(&cfg.Fetch)
	applyScheduleDefaults(&cfg.Schedule)
	applyNotifierDefaults(&cfg.Notifier)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)

	if len(cfg.Retailers) == 0 {
		cfg.Retailers = DefaultRetailers()
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyFetchDefaults(f *FetchConfig) {
	if f.Transport == "" {
		f.Transport = "http"
	}
	if f.MaxAttempts == 0 {
		f.MaxAttempts = 3
	}
	if f.RetryDelay == 0 {
		f.RetryDelay = 5 * time.Second
	}
	if f.Timeout == 0 {
		f.Timeout = 30 * time.Second
	}
	if f.Concurrency == 0 {
		f.Concurrency = 1
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Interval == 0 {
		s.Interval = 1800 * time.Second
	}
}

func applyNotifierDefaults(n *NotifierConfig) {
	if n.Backend == "" {
		n.Backend = "message_api"
	}
	if n.Timeout == 0 {
		n.Timeout = 10 * time.Second
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "retail-price-tracker"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validate(cfg *Config) error {
	var errs []error

	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	switch cfg.Notifier.Backend {
	case "message_api", "discord":
		if cfg.Notifier.Endpoint == "" {
			errs = append(errs, fmt.Errorf(
				"notifier.endpoint is required when backend is %s (or set %s)",
				cfg.Notifier.Backend, EnvMessageAPI,
			))
		}
	}

	if cfg.Schedule.Interval < 0 {
		errs = append(errs, fmt.Errorf("schedule.interval must be positive (got %s)", cfg.Schedule.Interval))
	}
	if cfg.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			errs = append(errs, fmt.Errorf("schedule.cron is invalid: %w", err))
		}
	}
	if cfg.Fetch.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("fetch.retry_delay must not be negative (got %s)", cfg.Fetch.RetryDelay))
	}
	if cfg.Fetch.Timeout < 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must not be negative (got %s)", cfg.Fetch.Timeout))
	}

	return errors.Join(errs...)
}

// fieldError renders a validation failure using the YAML path, e.g.
// "retailers[1].scheme must be one of [path slug]".
func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s] (got %q)", field, fe.Param(), fe.Value())
	case "unique":
		return fmt.Errorf("%s must not contain duplicates", field)
	case "min":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "http_url":
		return fmt.Errorf("%s must be an http(s) URL (got %q)", field, fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}
