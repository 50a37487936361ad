package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Pouseidon-949/poseidon-monitor/config"
)

var rootCmd = &cobra.Command{
	Use:   "poseidon-monitor",
	Short: "Embeddable monitoring layer for trading processes",
	Long: `Poseidon Monitor collects trading metrics into SQLite and serves
rolling-window summaries and dashboard views over them.

It provides tools for:
  - Recording trades, performance samples and liquidity observations
  - Hourly account growth tracking
  - Structured event logging with rotation
  - Composing dashboard views and JSON exports
  - Retention-based cleanup of expired metrics`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgFile string
	dbPath  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); environment overrides apply on top")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite metrics DB (overrides config)")
}

// loadConfig layers file, environment and flag configuration.
func loadConfig() (config.Config, error) {
	cfg := config.FromEnv()
	if cfgFile != "" {
		fileCfg, err := config.Load(cfgFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}
