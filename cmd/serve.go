package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusops/canvas-mcp/internal/api"
	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/config"
	"github.com/campusops/canvas-mcp/internal/mcp"
	"github.com/campusops/canvas-mcp/internal/observability"
	"github.com/spf13/cobra"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 2 * time.Minute // streamable MCP responses arrive as SSE
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [addr]",
	Short: "Start the HTTP server with a streamable /mcp endpoint",
	Long: `Start the HTTP transport. MCP clients connect to POST /mcp; GET
/health and GET /ready serve orchestrator probes. The address can be
given positionally or with --addr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(args)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address (host:port)")
	rootCmd.AddCommand(serveCmd)
}

// runServe initializes and starts the HTTP server.
func runServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr, err := resolveServeAddr(serveAddr, args)
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting HTTP server", "version", Version)

	provider, err := canvas.NewProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating canvas provider: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:     "canvas-mcp",
		Version:  Version,
		Provider: provider,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.Tracing)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer flushCancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Warn("tracing shutdown error", "error", err)
			}
		}()
	}

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:     logger,
		MCP:        mcpServer,
		Provider:   provider,
		TrustProxy: cfg.TrustProxy,
		RateBurst:  cfg.HTTPRateBurst,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("HTTP server ready",
		"addr", addr,
		"mcp", "/mcp",
		"health", "/health, /ready",
		"canvas_configured", provider.Configured(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
