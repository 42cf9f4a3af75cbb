package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/retail-price-tracker/internal/config"
	"github.com/donaldgifford/retail-price-tracker/internal/notify"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

func retailersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retailers",
		Short: "List the variant URLs that a scan would fetch",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(config.WithNotifierBackend(notify.BackendNoOp))
			if err != nil {
				return err
			}

			reg, err := newRegistry(cfg.Retailers)
			if err != nil {
				return err
			}

			retailers := make([]domain.Retailer, 0, len(cfg.Retailers))
			for i := range cfg.Retailers {
				retailers = append(retailers, cfg.Retailers[i].Retailer())
			}
			return writeTargets(c.OutOrStdout(), reg.Targets(retailers))
		},
	}
}

func writeTargets(w io.Writer, targets []domain.RetailerTargets) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "RETAILER\tVARIANT\tKEY\tURL"); err != nil {
		return err
	}
	for i := range targets {
		for _, v := range targets[i].Variants {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", targets[i].Name, v.Variant, v.Key, v.URL); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}
