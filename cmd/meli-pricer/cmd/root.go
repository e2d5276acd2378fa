// Package cmd implements the CLI commands for meli-pricer.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "meli-pricer",
		Short: "Price MercadoLibre listings from the Odoo catalog",
		Long: "Links MercadoLibre price-change exports against the Odoo product catalog,\n" +
			"solves the publication price that covers marketplace fees, and produces\n" +
			"the reconciliation table, either as an API service or as a one-shot CSV run.",
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file path (default config.yaml if present)")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level override (debug, info, warn, error)")

	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.AddCommand(versionCommand())
}

// initViper wires MLP_* environment variables and the optional flag
// overrides. The YAML config file itself is handled by internal/config;
// viper only carries the ad-hoc overrides on top.
func initViper() {
	viper.SetEnvPrefix("MLP")
	viper.AutomaticEnv()

	if cfgFile == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			cfgFile = "config.yaml"
			fmt.Fprintln(os.Stderr, "Using config file: config.yaml")
		}
	}
}

// logLevel returns the effective log level: flag or MLP_LOG_LEVEL first,
// then the config file value.
func logLevel(configured string) string {
	if v := viper.GetString("log_level"); v != "" {
		return v
	}
	return configured
}
