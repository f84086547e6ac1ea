// Package cmd provides CLI commands for canvas-mcp.
//
// Commands:
//   - mcp: Model Context Protocol server on stdio (for agent hosts)
//   - serve: HTTP server exposing the same tools on a streamable /mcp endpoint
//   - version: build and configuration information
//
// Signal handling and graceful shutdown are implemented
// for both server commands via context cancellation.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canvas-mcp",
	Short: "Read-only Canvas LMS tools for AI agents over MCP",
	Long: `canvas-mcp exposes a student's Canvas LMS data (courses, grades,
assignments, announcements) to AI agents through the Model Context
Protocol. All tools are read-only queries against the Canvas REST API.

Run "canvas-mcp mcp" for the stdio transport used by desktop agent
hosts, or "canvas-mcp serve" for the HTTP transport.

Configuration comes from CANVAS_API_URL and CANVAS_API_TOKEN, or from
~/.canvas-mcp/config.yaml. A server started without credentials still
runs; the health tool reports what is missing.`,
	SilenceUsage: true,
}

// Execute is the main entry point for the canvas-mcp CLI.
func Execute() error {
	// Initialize logger once at entry point. Output goes to stderr:
	// stdout is reserved for the stdio MCP transport.
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return rootCmd.Execute()
}
