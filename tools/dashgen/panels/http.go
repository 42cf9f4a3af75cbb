package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

const requestHistogram = "rpt_http_request_duration_seconds"

// RequestRate plots API requests per second from the recording rule.
func RequestRate() *timeseries.PanelBuilder {
	return legend(series("Request Rate", "API requests per second", "reqps", half), "mean", "max").
		WithTarget(query(`rpt:http_requests:rate5m`, "req/s", "A"))
}

// LatencyPercentiles plots p50, p95 and p99 API latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	p := legend(series("Latency Percentiles", "API request duration percentiles", "s", half), "mean", "max")
	for i, q := range []struct {
		q      float64
		legend string
	}{{0.50, "p50"}, {0.95, "p95"}, {0.99, "p99"}} {
		p = p.WithTarget(query(quantile(q.q, requestHistogram, "5m"), q.legend, string(rune('A'+i))))
	}
	return p
}

// ErrorRate plots 5xx responses as a percentage of all API requests.
func ErrorRate() *timeseries.PanelBuilder {
	return series("Error Rate %", "API 5xx responses as a percentage of requests", "percent", half).
		WithTarget(query(`rpt:http_errors:rate5m / rpt:http_requests:rate5m * 100`, "error %", "A")).
		Thresholds(warnAt(1, 5)).
		ColorScheme(colors(dashboard.FieldColorModeIdThresholds))
}
