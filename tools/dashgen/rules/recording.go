package rules

func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}

// RecordingRules returns the pre-computed series the dashboard and alerts
// read.
func RecordingRules() PrometheusRule {
	return single("rpt-recording-rules", "rpt-recording",
		record("rpt:http_requests:rate5m",
			`sum(rate(rpt_http_requests_total[5m]))`),
		record("rpt:http_errors:rate5m",
			`sum(rate(rpt_http_requests_total{status=~"5.."}[5m]))`),
		record("rpt:fetch_failures:rate5m",
			`sum(rate(rpt_fetch_attempts_total{outcome!="ok"}[5m]))`),
		record("rpt:variants_unknown:increase1h",
			`sum by (retailer) (increase(rpt_variants_unknown_total[1h]))`),
		record("rpt:extraction_failures:increase1h",
			`sum by (retailer) (increase(rpt_extraction_failures_total[1h]))`),
	)
}
