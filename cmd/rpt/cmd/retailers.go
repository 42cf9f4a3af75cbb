package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func retailersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retailers",
		Short: "List tracked retailers and their variant URLs",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			targets, err := c.ListRetailers(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(targets)
			}
			return printTargetsTable(os.Stdout, targets)
		},
	}
}
