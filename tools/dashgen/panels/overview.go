package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat shows the last /healthz probe result.
func HealthzStat() *stat.PanelBuilder {
	return single("Healthz", "Health check status (1 = ok, 0 = failing)",
		sel("rpt_healthz_up"), quarter, short).
		Thresholds(upAt(1)).
		TextMode(common.BigValueTextModeValue)
}

// ReadyzStat shows whether the first scan cycle has completed.
func ReadyzStat() *stat.PanelBuilder {
	return single("Readyz", "Readiness status (1 = first cycle completed, 0 = not ready)",
		sel("rpt_readyz_up"), quarter, short).
		Thresholds(upAt(1)).
		TextMode(common.BigValueTextModeValue)
}

// LastCycle shows the time since the last completed scan cycle. The
// thresholds assume the default 30 minute interval.
func LastCycle() *stat.PanelBuilder {
	return single("Last Cycle", "Time since the last completed scan cycle",
		`time() - `+sel("rpt_last_cycle_timestamp_seconds"), quarter, short).
		Unit("s").
		Thresholds(warnAt(2400, 5400))
}

// UptimeStat shows process uptime.
func UptimeStat() *stat.PanelBuilder {
	return single("Uptime", "Time since process start",
		`time() - `+sel("process_start_time_seconds"), quarter, short).
		Unit("s").
		ColorMode(common.BigValueColorModeValue)
}
