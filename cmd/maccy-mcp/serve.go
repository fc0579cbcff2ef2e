package main

import (
	"github.com/spf13/cobra"

	"github.com/mattjh/maccy-mcp/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Serve speaks the Model Context Protocol on stdin/stdout until the
client disconnects. All logging goes to the log file, never to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg, "server")
	defer log.Close()

	srv := server.New(cfg, log)
	if err := srv.ServeStdio(); err != nil {
		log.Errorf("server stopped: %v", err)
		return err
	}
	return nil
}
