package domain

import (
	"context"
)

// ToolHandler processes requests for a family of related tools.
// Handlers advertise their tool definitions for discovery and execute
// invocations routed to them by the dispatcher.
type ToolHandler interface {
	// Handle processes an MCP tool call request.
	// Returns the tool response or an error if processing fails.
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)

	// ListTools returns available tools for this handler.
	ListTools() []ToolDefinition

	// ToolName returns the identifier for this handler.
	// This is used for routing requests to the appropriate handler.
	ToolName() string
}
