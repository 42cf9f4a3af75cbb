package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Trigger or inspect scan cycles",
	}

	cmd.AddCommand(scanTriggerCmd())
	cmd.AddCommand(scanLastCmd())
	return cmd
}

func scanTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Run a scan cycle now",
		Long: "Runs one scan cycle on the server and waits for its report. The cycle\n" +
			"waits for any cycle already in progress.",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			report, err := c.TriggerScan(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(report)
			}
			return printCycleReport(os.Stdout, report)
		},
	}
}

func scanLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recent cycle report",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			report, err := c.LastScan(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(report)
			}
			return printCycleReport(os.Stdout, report)
		},
	}
}
