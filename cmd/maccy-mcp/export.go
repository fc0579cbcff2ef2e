package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattjh/maccy-mcp/pkg/export"
	"github.com/mattjh/maccy-mcp/pkg/history"
)

var (
	flagExportFormat string
	flagExportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export clipboard history to a file",
	Long: `Export writes history entries to the given file without going through
an MCP client.

Examples:
  maccy-mcp export history.json --format json
  maccy-mcp export history.csv --format csv --limit 200`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "json", "Export format: json, csv or txt")
	exportCmd.Flags().IntVar(&flagExportLimit, "limit", 1000, "Maximum number of entries to export")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	path := cfg.DatabasePath
	if path == "" {
		if path, err = history.DefaultPath(); err != nil {
			return err
		}
	}

	st, err := history.Open(path, time.Duration(cfg.BusyTimeoutMS)*time.Millisecond)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(context.Background(), history.ListOptions{Limit: flagExportLimit})
	if err != nil {
		return err
	}

	records := export.BuildRecords(entries, cfg.Strictness())
	if err := export.WriteFile(args[0], format, records); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s as %s\n", len(records), args[0], format)
	return nil
}
