// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/retail-price-tracker/tools/dashgen/panels"
)

// UID is the stable dashboard identifier.
const UID = "rpt-overview"

// BuildOverview constructs the RPT Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("RPT Overview").
		Uid(UID).
		Tags([]string{"rpt", "retail-price-tracker"}).
		Refresh("1m").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.LastCycle()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Fetch").
		WithPanel(panels.FetchAttempts()).
		WithPanel(panels.FetchLatency()).
		WithPanel(panels.FetchExhausted()))

	b.WithRow(dashboard.NewRowBuilder("Scan").
		WithPanel(panels.CycleDuration()).
		WithPanel(panels.UnknownVariants()).
		WithPanel(panels.ExtractionFailures()).
		WithPanel(panels.NextCycle()).
		WithPanel(panels.TrackedVariants()))

	b.WithRow(dashboard.NewRowBuilder("Prices").
		WithPanel(panels.PriceChanges()).
		WithPanel(panels.CurrentPrices()))

	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.NotificationsSent()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
