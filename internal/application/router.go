package application

import (
	"context"
	"strings"

	"responsive-mcp-server/internal/domain"
)

// RequestRouter dispatches MCP tool requests to the appropriate ToolHandler.
// The handler registry is fixed at construction time and read-only
// afterwards, so concurrent Route calls share no mutable state beyond
// the registry itself.
type RequestRouter struct {
	handlers map[string]domain.ToolHandler
}

// NewRequestRouter creates a new RequestRouter with the provided handlers.
// Handlers are registered by their ToolName() identifier.
func NewRequestRouter(handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{
		handlers: make(map[string]domain.ToolHandler),
	}

	for _, handler := range handlers {
		router.handlers[handler.ToolName()] = handler
	}

	return router
}

// Route dispatches a tool request to the appropriate handler based on the
// tool name prefix (e.g. "search_content" -> the "search" handler). An
// unregistered name fails with an unknown_tool ErrorEnvelope; the handler's
// response is otherwise returned unchanged.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	handlerName := r.extractHandlerName(req.Name)
	if handlerName == "" {
		return nil, domain.Envelope(domain.ErrUnknownTool, "unknown tool: %s", req.Name)
	}

	handler, exists := r.handlers[handlerName]
	if !exists {
		return nil, domain.Envelope(domain.ErrUnknownTool, "unknown tool: %s (no handler registered for '%s')", req.Name, handlerName)
	}

	return handler.Handle(ctx, req)
}

// ListAllTools aggregates tool definitions from all registered handlers.
// This is used for MCP tool discovery (tools/list method).
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	var allTools []domain.ToolDefinition

	for _, handler := range r.handlers {
		allTools = append(allTools, handler.ListTools()...)
	}

	return allTools
}

// extractHandlerName extracts the handler identifier from a tool name.
// Tool names follow the pattern: <handler>_<operation>
// For example: "search_content" -> "search".
func (r *RequestRouter) extractHandlerName(toolName string) string {
	idx := strings.Index(toolName, "_")
	if idx == -1 {
		return ""
	}

	return toolName[:idx]
}

// GetHandler returns the handler for a specific handler name.
// This is useful for testing and debugging.
func (r *RequestRouter) GetHandler(handlerName string) (domain.ToolHandler, bool) {
	handler, exists := r.handlers[handlerName]
	return handler, exists
}
