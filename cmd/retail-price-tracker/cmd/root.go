// Package cmd implements the CLI commands for retail-price-tracker.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "retail-price-tracker",
	Short: "Watch retailer product pages for price changes",
	Long: "A long-running service that polls retailer product pages for every configured\n" +
		"variant, records the displayed price and notifies a messaging endpoint when\n" +
		"a price changes, with an initial and a daily price summary.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file path (default: built-in retailers)")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-format", "", "log format override (text, json)")

	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format")))
	cobra.CheckErr(viper.BindEnv("log_level", "LOG_LEVEL"))
	cobra.CheckErr(viper.BindEnv("log_format", "LOG_FORMAT"))

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(scanCommand())
	rootCmd.AddCommand(retailersCommand())
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
