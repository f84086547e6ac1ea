package mcp

import (
	"context"
	"fmt"

	"github.com/campusops/canvas-mcp/internal/tools"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerAccountTools registers the identity and diagnostics tools.
// Tools: get_current_user, health
func (s *Server) registerAccountTools() error {
	// get_current_user
	currentUserSchema, err := jsonschema.For[tools.CurrentUserInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.CurrentUserName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.CurrentUserName,
		Description: "Get the profile of the Canvas user this server is authenticated as. " +
			"Returns the user's ID, name, login, primary email, time zone, and locale. " +
			"Use this to resolve who \"me\" refers to before running other queries.",
		InputSchema: currentUserSchema,
	}, s.CurrentUser)

	// health
	healthSchema, err := jsonschema.For[tools.HealthInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.HealthName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.HealthName,
		Description: "Check whether the server has the Canvas credentials it needs. " +
			"Reports which environment variables are present without calling Canvas, " +
			"so it always succeeds. Use this first when other tools report NOT_CONFIGURED.",
		InputSchema: healthSchema,
	}, s.Health)

	return nil
}

// CurrentUser handles the get_current_user MCP tool call.
func (s *Server) CurrentUser(ctx context.Context, req *mcp.CallToolRequest, input tools.CurrentUserInput) (*mcp.CallToolResult, any, error) {
	result, err := s.account.CurrentUser(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.CurrentUserName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

// Health handles the health MCP tool call.
func (s *Server) Health(ctx context.Context, req *mcp.CallToolRequest, input tools.HealthInput) (*mcp.CallToolResult, any, error) {
	result, err := s.account.Health(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.HealthName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}
