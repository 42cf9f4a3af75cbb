package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/retail-price-tracker/internal/config"
	"github.com/donaldgifford/retail-price-tracker/internal/notify"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

func scanCommand() *cobra.Command {
	var (
		sendNotifications bool
		jsonOut           bool
	)

	c := &cobra.Command{
		Use:   "scan",
		Short: "Run a single scan cycle and print the prices",
		Long: "Scans every configured retailer once and prints one line per variant.\n" +
			"Notifications are discarded unless --notify is given.",
		RunE: func(c *cobra.Command, _ []string) error {
			var opts []config.LoadOption
			if !sendNotifications {
				opts = append(opts, config.WithNotifierBackend(notify.BackendNoOp))
			}

			cfg, log, err := loadConfig(opts...)
			if err != nil {
				return err
			}

			a, err := buildApp(cfg, log)
			if err != nil {
				return err
			}

			report := a.watcher.RunCycle(c.Context())
			if jsonOut {
				return writeReportJSON(c.OutOrStdout(), report)
			}
			return writeReportLines(c.OutOrStdout(), report)
		},
	}

	c.Flags().BoolVar(&sendNotifications, "notify", false, "deliver notifications to the configured backend")
	c.Flags().BoolVar(&jsonOut, "json", false, "print the cycle report as JSON")
	return c
}

func writeReportLines(w io.Writer, report *domain.CycleReport) error {
	for _, line := range report.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeReportJSON(w io.Writer, report *domain.CycleReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
