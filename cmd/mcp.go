package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/config"
	"github.com/campusops/canvas-mcp/internal/mcp"
	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the MCP server on the stdio transport. This is the mode agent
hosts (Claude Desktop, Cursor, and similar) spawn as a subprocess:
JSON-RPC frames flow over stdin/stdout, logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// runMCP initializes and starts the MCP server on stdio transport.
func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting MCP server", "version", Version)

	provider, err := canvas.NewProvider(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("creating canvas provider: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:     "canvas-mcp",
		Version:  Version,
		Provider: provider,
		Logger:   slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	slog.Info("MCP server ready",
		"name", "canvas-mcp",
		"version", Version,
		"transport", "stdio",
		"canvas_configured", provider.Configured(),
	)

	if err := mcpServer.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	slog.Info("MCP server shut down gracefully")
	return nil
}
