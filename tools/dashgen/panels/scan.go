package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CycleDuration plots the p95 duration of a full scan cycle.
func CycleDuration() *timeseries.PanelBuilder {
	return series("Cycle Duration (p95)", "95th percentile duration of a full scan cycle", "s", third).
		WithTarget(query(quantile(0.95, "rpt_scan_cycle_duration_seconds", "30m"), "p95", "A"))
}

// UnknownVariants plots variants reported as Unknown per retailer.
func UnknownVariants() *timeseries.PanelBuilder {
	return legend(bars("Unknown Variants / h", "Variants whose price could not be resolved, per retailer", third), "mean", "max").
		WithTarget(query(`rpt:variants_unknown:increase1h`, "{{retailer}}", "A")).
		Thresholds(warnAt(1, 5))
}

// ExtractionFailures plots pages that had no matching price element. A
// sustained rate usually means a page layout changed under the selector.
func ExtractionFailures() *timeseries.PanelBuilder {
	return bars("Extraction Failures / h", "Pages fetched without a matching price element, per retailer", third).
		WithTarget(query(`rpt:extraction_failures:increase1h`, "{{retailer}}", "A")).
		Thresholds(warnAt(1, 5)).
		ColorScheme(colors(dashboard.FieldColorModeIdThresholds))
}

// NextCycle shows the time until the next scheduled cycle.
func NextCycle() *stat.PanelBuilder {
	return single("Next Cycle", "Time until the next scheduled scan cycle",
		sel("rpt_scheduler_next_cycle_timestamp_seconds")+` - time()`, half, short).
		Unit("s")
}

// TrackedVariants shows how many variants hold a recorded price.
func TrackedVariants() *stat.PanelBuilder {
	return single("Tracked Variants", "Variants with a recorded price in the store",
		sel("rpt_tracked_variants"), half, short).
		ColorMode(common.BigValueColorModeValue)
}
