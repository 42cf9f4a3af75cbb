package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// promauto registers on package init; every collector must be present.
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, FetchAttemptsTotal)
	assert.NotNil(t, FetchExhaustedTotal)
	assert.NotNil(t, FetchDuration)
	assert.NotNil(t, ScanCyclesTotal)
	assert.NotNil(t, ScanCycleDuration)
	assert.NotNil(t, ExtractionFailuresTotal)
	assert.NotNil(t, PriceChangesTotal)
	assert.NotNil(t, VariantPrice)
	assert.NotNil(t, NotificationsSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
}

func TestMetricsNamespace(t *testing.T) {
	t.Parallel()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "rpt_scan_cycles_total" {
			found = true
		}
	}
	assert.True(t, found, "rpt_scan_cycles_total should be registered on the default registry")
}

func TestVariantPriceLabels(t *testing.T) {
	t.Parallel()

	VariantPrice.WithLabelValues("metrics-test", "gwen").Set(1299.99)
	assert.InDelta(t, 1299.99, testutil.ToFloat64(VariantPrice.WithLabelValues("metrics-test", "gwen")), 0.001)
}
