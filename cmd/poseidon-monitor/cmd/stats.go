package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Pouseidon-949/poseidon-monitor/monitor"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-table row counts for the metrics database",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := monitor.New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	rows, err := m.Collector().Stats()
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(rows))
	for t := range rows {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	for _, t := range tables {
		fmt.Printf("%-22s %d\n", t, rows[t])
	}
	return nil
}
