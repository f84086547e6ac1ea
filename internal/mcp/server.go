package mcp

import (
	"context"
	"fmt"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/log"
	"github.com/campusops/canvas-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server together with the Canvas toolsets it
// exposes. Create it with NewServer; all tools are registered up front.
type Server struct {
	mcpServer   *mcp.Server
	account     *tools.Account
	courses     *tools.Courses
	assignments *tools.Assignments
	logger      log.Logger
	name        string
	version     string
}

// Config holds the dependencies for creating an MCP server.
type Config struct {
	// Name is the server name reported during the MCP handshake.
	Name string

	// Version is the server version reported during the MCP handshake.
	Version string

	// Provider supplies the shared Canvas API client. The provider may be
	// unconfigured; tools then answer with a NOT_CONFIGURED error instead
	// of failing at startup, which keeps the health tool usable.
	Provider *canvas.Provider

	// Logger receives structured server logs.
	Logger log.Logger
}

// NewServer creates an MCP server with every Canvas tool registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("canvas provider is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	account, err := tools.NewAccount(cfg.Provider, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create account toolset: %w", err)
	}
	courses, err := tools.NewCourses(cfg.Provider, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create courses toolset: %w", err)
	}
	assignments, err := tools.NewAssignments(cfg.Provider, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignments toolset: %w", err)
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		account:     account,
		courses:     courses,
		assignments: assignments,
		logger:      cfg.Logger,
		name:        cfg.Name,
		version:     cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() error {
	if err := s.registerAccountTools(); err != nil {
		return fmt.Errorf("failed to register account tools: %w", err)
	}
	if err := s.registerCourseTools(); err != nil {
		return fmt.Errorf("failed to register course tools: %w", err)
	}
	if err := s.registerAssignmentTools(); err != nil {
		return fmt.Errorf("failed to register assignment tools: %w", err)
	}
	return nil
}

// Run starts the MCP server on the given transport and blocks until the
// client disconnects or the context is canceled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting", "name", s.name, "version", s.version)
	return s.mcpServer.Run(ctx, transport)
}

// MCPServer exposes the underlying SDK server so the HTTP transport can
// mount it through mcp.NewStreamableHTTPHandler.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
