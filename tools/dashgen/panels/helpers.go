// Package panels builds the Grafana panels for retail-price-tracker
// metrics. Every query is scoped to the Job scrape job.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Job is the Prometheus scrape job the queries select.
const Job = "retail-price-tracker"

// Grid sizes on Grafana's 24 column layout.
const (
	quarter uint32 = 6
	third   uint32 = 8
	half    uint32 = 12

	short uint32 = 4
	tall  uint32 = 8
)

// DSRef points panels at the ${datasource} template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// sel renders a metric selector for Job with optional extra matchers.
func sel(metric string, matchers ...string) string {
	all := append([]string{`job="` + Job + `"`}, matchers...)
	return metric + "{" + strings.Join(all, ",") + "}"
}

// quantile renders a histogram_quantile over histogram's buckets.
func quantile(q float64, histogram, window string) string {
	return fmt.Sprintf("histogram_quantile(%g, sum(rate(%s[%s])) by (le))",
		q, sel(histogram+"_bucket"), window)
}

func query(expr, legend, ref string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legend).
		RefId(ref)
}

// step is one threshold boundary.
type step struct {
	at    float64
	color string
}

// steps builds absolute thresholds starting at base.
func steps(base string, boundaries ...step) cog.Builder[dashboard.ThresholdsConfig] {
	out := []dashboard.Threshold{{Color: base}}
	for _, b := range boundaries {
		out = append(out, dashboard.Threshold{Value: cog.ToPtr(b.at), Color: b.color})
	}
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(out)
}

// warnAt is green, then yellow from yellow, then red from red.
func warnAt(yellow, red float64) cog.Builder[dashboard.ThresholdsConfig] {
	return steps("green", step{yellow, "yellow"}, step{red, "red"})
}

// upAt is red below v and green from v.
func upAt(v float64) cog.Builder[dashboard.ThresholdsConfig] {
	return steps("red", step{v, "green"})
}

func colors(mode dashboard.FieldColorModeId) cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(mode)
}

// series starts a line timeseries panel with the shared styling.
func series(title, description, unit string, width uint32) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(tall).
		Span(width).
		Unit(unit).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(steps("green")).
		ColorScheme(colors(dashboard.FieldColorModeIdPaletteClassic)).
		DrawStyle(common.GraphDrawStyleLine)
}

// bars is series drawn as bars.
func bars(title, description string, width uint32) *timeseries.PanelBuilder {
	return series(title, description, "short", width).
		DrawStyle(common.GraphDrawStyleBars)
}

// legend shows a table legend with the given calculations and a sorted
// multi-series tooltip.
func legend(p *timeseries.PanelBuilder, calcs ...string) *timeseries.PanelBuilder {
	return p.
		Legend(common.NewVizLegendOptionsBuilder().
			DisplayMode(common.LegendDisplayModeTable).
			Placement(common.LegendPlacementBottom).
			Calcs(calcs)).
		Tooltip(common.NewVizTooltipOptionsBuilder().
			Mode(common.TooltipDisplayModeMulti).
			Sort(common.SortOrderDescending))
}

// single starts a stat panel with one query and threshold-colored
// background.
func single(title, description, expr string, width, height uint32) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(height).
		Span(width).
		WithTarget(query(expr, "", "A")).
		Thresholds(steps("green")).
		ColorScheme(colors(dashboard.FieldColorModeIdThresholds)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
