// Package main is the entry point for the D&D 5e MCP server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-mcp/cmd/server/client"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dnd-mcp",
	Short: "D&D 5e game state MCP server",
	Long: `dnd-mcp keeps D&D 5e campaign state (characters, combat, inventory and
session history) and exposes it to an AI dungeon master as MCP tools.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
