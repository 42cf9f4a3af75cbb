package rules

type severity string

const (
	critical severity = "critical"
	warning  severity = "warning"
)

func alert(name, expr, forDur string, sev severity, summary, description string) Rule {
	return Rule{
		Alert:  name,
		Expr:   expr,
		For:    forDur,
		Labels: map[string]string{"severity": string(sev)},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}

// AlertRules returns the operational alerts for the tracker.
func AlertRules() PrometheusRule {
	return single("rpt-alerts", "rpt-alerts",
		alert("RptDown", `absent(up{job="retail-price-tracker"})`, "2m", critical,
			"Retail Price Tracker is down",
			"The retail-price-tracker job has been absent for more than 2 minutes."),
		alert("RptNotReady", `rpt_readyz_up == 0`, "1h", warning,
			"Retail Price Tracker has not completed a scan cycle",
			"The readiness probe has reported not-ready for an hour; the first cycle has not finished."),
		alert("RptCycleStalled", `time() - rpt_last_cycle_timestamp_seconds > 3 * 3600`, "10m", warning,
			"No scan cycle has completed for 3 hours",
			"The watcher loop appears stuck or the scheduler stopped firing."),
		alert("RptHighErrorRate", `rpt:http_errors:rate5m / rpt:http_requests:rate5m > 0.05`, "5m", warning,
			"High HTTP error rate on Retail Price Tracker",
			"More than 5% of API requests returned 5xx over the last 5 minutes."),
		alert("RptFetchFailures", `increase(rpt_fetch_exhausted_total[1h]) > 5`, "0m", warning,
			"Retailer pages are failing after all retries",
			"More than 5 variant fetches exhausted their retries in the last hour."),
		alert("RptExtractionFailures", `rpt:extraction_failures:increase1h > 0`, "2h", warning,
			"Price extraction is failing for {{ $labels.retailer }}",
			"Pages are fetched but the price selector no longer matches; the page layout may have changed."),
		alert("RptNotificationFailures", `increase(rpt_notification_failures_total[5m]) > 0`, "1m", warning,
			"Notification delivery failures detected",
			"One or more price notifications failed to reach the messaging endpoint."),
	)
}
