package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/tools/dashgen/rules"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		want    []string
		wantErr bool
	}{
		{
			name: "plain selector",
			expr: `rpt_readyz_up{job="retail-price-tracker"}`,
			want: []string{"rpt_readyz_up"},
		},
		{
			name: "histogram quantile",
			expr: `histogram_quantile(0.95, sum(rate(rpt_fetch_duration_seconds_bucket[5m])) by (le))`,
			want: []string{"rpt_fetch_duration_seconds_bucket"},
		},
		{
			name: "binary expression",
			expr: `rpt:http_errors:rate5m / rpt:http_requests:rate5m > 0.05`,
			want: []string{"rpt:http_errors:rate5m", "rpt:http_requests:rate5m"},
		},
		{
			name:    "syntax error",
			expr:    `sum(rate(rpt_http_requests_total[5m])`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Metrics(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	set := map[string]bool{"rpt_readyz_up": true}
	cr := rules.PrometheusRule{
		Spec: rules.RuleSpec{
			Groups: []rules.RuleGroup{{
				Name: "g",
				Rules: []rules.Rule{
					{Alert: "Ok", Expr: `rpt_readyz_up == 0`, Labels: map[string]string{"severity": "warning"}},
					{Alert: "NoSeverity", Expr: `rpt_readyz_up == 0`},
					{Record: "unknown", Expr: `rate(rpt_missing_total[5m])`},
					{Record: "broken", Expr: `rate(`},
				},
			}},
		},
	}

	r := Rules(cr, set)
	assert.False(t, r.Ok())
	require.Len(t, r.Errors, 3)
	assert.Contains(t, r.Errors[0], "g/NoSeverity")
	assert.Contains(t, r.Errors[1], `unknown metric "rpt_missing_total"`)
	assert.Contains(t, r.Errors[2], "invalid PromQL")
}

func TestKnown_HistogramSuffix(t *testing.T) {
	t.Parallel()

	set := map[string]bool{"rpt_fetch_duration_seconds": true}
	assert.True(t, known("rpt_fetch_duration_seconds_bucket", set))
	assert.True(t, known("rpt_fetch_duration_seconds_count", set))
	assert.False(t, known("rpt_fetch_duration_seconds_total", set))
}
