package main

import "errors"

// KnownMetrics is the set of metric names exported by retail-price-tracker
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"rpt_http_request_duration_seconds": true,
	"rpt_http_requests_total":           true,

	// Health metrics.
	"rpt_healthz_up": true,
	"rpt_readyz_up":  true,

	// Fetch metrics.
	"rpt_fetch_attempts_total":   true,
	"rpt_fetch_exhausted_total":  true,
	"rpt_fetch_duration_seconds": true,

	// Scan metrics.
	"rpt_scan_cycles_total":            true,
	"rpt_scan_cycle_duration_seconds":  true,
	"rpt_last_cycle_timestamp_seconds": true,
	"rpt_variants_unknown_total":       true,
	"rpt_extraction_failures_total":    true,
	"rpt_price_changes_total":          true,
	"rpt_variant_price":                true,
	"rpt_tracked_variants":             true,

	// Notification metrics.
	"rpt_notifications_sent_total":      true,
	"rpt_notification_failures_total":   true,
	"rpt_notification_duration_seconds": true,

	// Scheduler metrics.
	"rpt_scheduler_next_cycle_timestamp_seconds": true,

	// Recording rules.
	"rpt:http_requests:rate5m":           true,
	"rpt:http_errors:rate5m":             true,
	"rpt:fetch_failures:rate5m":          true,
	"rpt:variants_unknown:increase1h":    true,
	"rpt:extraction_failures:increase1h": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
