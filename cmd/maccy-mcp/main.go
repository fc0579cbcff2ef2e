// Command maccy-mcp exposes the Maccy clipboard manager's history to AI
// assistants as an MCP stdio server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
