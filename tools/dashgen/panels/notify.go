package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NotificationsSent plots delivered notifications by kind.
func NotificationsSent() *timeseries.PanelBuilder {
	return bars("Notifications Sent / h", "Delivered notifications by kind", third).
		WithTarget(query(`sum by (kind) (increase(`+sel("rpt_notifications_sent_total")+`[1h]))`, "{{kind}}", "A"))
}

// NotificationLatency plots the p95 delivery latency.
func NotificationLatency() *timeseries.PanelBuilder {
	return series("Notification Latency (p95)", "95th percentile notification delivery latency", "s", third).
		WithTarget(query(quantile(0.95, "rpt_notification_duration_seconds", "1h"), "p95", "A")).
		Thresholds(warnAt(1, 5))
}

// NotificationFailures counts failed deliveries in the last day.
func NotificationFailures() *stat.PanelBuilder {
	return single("Notification Failures (24h)", "Failed notification deliveries in the last 24 hours",
		`increase(`+sel("rpt_notification_failures_total")+`[24h])`, third, tall).
		Thresholds(warnAt(1, 5)).
		GraphMode(common.BigValueGraphModeArea)
}
