package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchAttempts plots page fetch attempts by outcome.
func FetchAttempts() *timeseries.PanelBuilder {
	return legend(series("Fetch Attempts", "Page fetch attempts per second by outcome", "reqps", third), "mean", "max").
		WithTarget(query(`sum by (outcome) (rate(`+sel("rpt_fetch_attempts_total")+`[5m]))`, "{{outcome}}", "A"))
}

// FetchLatency plots the p95 duration of one fetch attempt.
func FetchLatency() *timeseries.PanelBuilder {
	return series("Fetch Latency (p95)", "95th percentile duration of one fetch attempt", "s", third).
		WithTarget(query(quantile(0.95, "rpt_fetch_duration_seconds", "5m"), "p95", "A")).
		Thresholds(warnAt(5, 20))
}

// FetchExhausted counts fetches that failed every retry in the last day.
func FetchExhausted() *stat.PanelBuilder {
	return single("Retries Exhausted (24h)", "Fetches that failed on every attempt in the last 24 hours",
		`increase(`+sel("rpt_fetch_exhausted_total")+`[24h])`, third, tall).
		Thresholds(warnAt(1, 10)).
		GraphMode(common.BigValueGraphModeArea)
}
