package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PriceChanges plots detected price changes per retailer over a day.
func PriceChanges() *timeseries.PanelBuilder {
	return legend(series("Price Changes / day", "Detected price changes per retailer over the last 24 hours", "short", half), "last", "max").
		WithTarget(query(`sum by (retailer) (increase(`+sel("rpt_price_changes_total")+`[24h]))`, "{{retailer}}", "A"))
}

// CurrentPrices shows the last observed price per variant.
func CurrentPrices() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Current Prices").
		Description("Last observed numeric price per variant").
		Datasource(DSRef()).
		Height(tall).
		Span(half).
		WithTarget(query(sel("rpt_variant_price"), "{{retailer}} {{variant}}", "A")).
		Unit("currencyUSD").
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(steps("green")).
		ColorScheme(colors(dashboard.FieldColorModeIdPaletteClassic))
}
