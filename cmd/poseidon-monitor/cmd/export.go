package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pouseidon-949/poseidon-monitor/monitor"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all dashboard views as one JSON document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var exportOut string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := monitor.New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	data, err := m.Dashboard().ExportJSON()
	if err != nil {
		return fmt.Errorf("compose dashboard: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(exportOut, data, 0o644)
}
