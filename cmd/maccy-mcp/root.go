package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattjh/maccy-mcp/pkg/config"
	"github.com/mattjh/maccy-mcp/pkg/logging"
	"github.com/mattjh/maccy-mcp/pkg/server"
)

// Flag variables shared across commands.
var (
	flagConfig string
	flagDB     string
	flagLogDir string
)

var rootCmd = &cobra.Command{
	Use:   "maccy-mcp",
	Short: "MCP server for Maccy clipboard history",
	Long: `maccy-mcp serves the Maccy clipboard manager's local history to AI
assistants over the Model Context Protocol. Running it with no subcommand
starts the stdio server.`,
	Version:       server.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe()
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.maccy-mcp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to Maccy's Storage.sqlite (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "Log directory (default ~/.maccy-mcp/logs)")
}

// loadConfig resolves the effective configuration from file, environment
// and flags, in that order of increasing precedence.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDB != "" {
		cfg.DatabasePath = flagDB
	}
	if flagLogDir != "" {
		cfg.LogDir = flagLogDir
	}
	return cfg, nil
}

// newLogger builds the component logger honoring the configured directory.
// Degraded (stderr) logging is not fatal for a stdio server.
func newLogger(cfg config.Config, component string) *logging.Logger {
	if cfg.LogDir != "" {
		logging.SetDirectory(cfg.LogDir)
	}
	log, err := logging.NewLogger(component)
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: file logging unavailable: %v\n", err)
	}
	return log
}
