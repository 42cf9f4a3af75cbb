package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func pricesCmd() *cobra.Command {
	var retailer string

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "List the latest observed prices",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			list, err := c.ListPrices(context.Background(), retailer)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(list)
			}
			return printPricesTable(os.Stdout, list.Prices)
		},
	}

	cmd.Flags().StringVar(&retailer, "retailer", "", "only show prices for this retailer")
	return cmd
}
