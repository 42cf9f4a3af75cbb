// Package cmd implements the rpt CLI commands.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/retail-price-tracker/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "rpt",
		Short: "CLI client for Retail Price Tracker",
		Long: "rpt is a command-line client for the Retail Price Tracker API.\n" +
			"It lists the latest prices and tracked variants, triggers scan\n" +
			"cycles and shows the last cycle report.",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch f := viper.GetString("output"); f {
			case "table", "json":
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table or json)", f)
			}
		},
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.rpt.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	// scan trigger blocks for a whole cycle.
	rootCmd.PersistentFlags().
		Duration("timeout", 5*time.Minute, "request timeout")

	for _, name := range []string{"server", "output", "timeout"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(pricesCmd())
	rootCmd.AddCommand(retailersCmd())
	rootCmd.AddCommand(scanCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rpt")
	}

	viper.SetEnvPrefix("RPT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"),
		apiclient.WithHTTPClient(&http.Client{Timeout: viper.GetDuration("timeout")}))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
