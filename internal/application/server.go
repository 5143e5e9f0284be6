package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"responsive-mcp-server/internal/domain"
)

// Protocol identity advertised during the initialize handshake.
const (
	protocolVersion = "2024-11-05"
	serverName      = "responsive-mcp-server"
	serverVersion   = "1.0.0"
)

// sessionState tracks the handshake state machine of the single channel
// this server serves. Only the Ready state accepts discovery and tool
// invocation requests.
type sessionState int

const (
	stateUninitialized sessionState = iota
	stateHandshaking
	stateReady
	stateClosed
)

// String returns the string representation of sessionState.
func (s sessionState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateHandshaking:
		return "handshaking"
	case stateReady:
		return "ready"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Server is the main MCP server implementation.
// It orchestrates the transport layer, request routing, the handshake
// state machine, and the MCP protocol methods.
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	config    *domain.Config
	logger    *StructuredLogger

	mu    sync.Mutex
	state sessionState
}

// NewServer creates a new MCP server instance.
func NewServer(
	transport domain.Transport,
	router *RequestRouter,
	config *domain.Config,
) *Server {
	return &Server{
		transport: transport,
		router:    router,
		config:    config,
		logger:    NewStructuredLogger(),
		state:     stateUninitialized,
	}
}

// Start begins the server operation.
// It starts the transport layer and begins processing incoming requests.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.LogError("failed to start transport", err, map[string]interface{}{
			"transport_type": s.config.Transport.Type,
		})
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.LogInfo("server started", map[string]interface{}{
		"transport_type": s.config.Transport.Type,
	})

	go s.processRequests(ctx)

	return nil
}

// processRequests continuously processes incoming JSON-RPC requests.
// Tool invocations are handled in their own goroutines so that a remote
// call awaiting its 30-second timeout never blocks discovery or ping
// requests; each invocation touches only its own request/response
// values plus the read-only registry.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.setState(stateClosed)
			s.logger.LogInfo("server shutting down", nil)
			return
		case req, ok := <-reqChan:
			if !ok {
				// Channel closed, the client went away.
				s.setState(stateClosed)
				return
			}

			s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	s.logger.LogInfo("received request", map[string]interface{}{
		"method":     req.Method,
		"request_id": req.ID,
	})

	if err := s.validateRequest(req); err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidRequest, "Invalid Request", err.Error())
		return
	}

	switch req.Method {
	case "initialize":
		s.sendResult(req.ID, s.handleInitialize(req))
	case "notifications/initialized":
		s.handleInitialized()
	case "ping":
		s.sendResult(req.ID, map[string]interface{}{})
	case "tools/list":
		if !s.requireReady(req) {
			return
		}
		s.sendResult(req.ID, map[string]interface{}{
			"tools": s.router.ListAllTools(),
		})
	case "prompts/list":
		if !s.requireReady(req) {
			return
		}
		// No prompts are registered; an empty list is a valid answer.
		s.sendResult(req.ID, map[string]interface{}{
			"prompts": []domain.PromptDefinition{},
		})
	case "resources/list":
		if !s.requireReady(req) {
			return
		}
		s.sendResult(req.ID, map[string]interface{}{
			"resources": []domain.ResourceDefinition{},
		})
	case "tools/call":
		if !s.requireReady(req) {
			return
		}
		go s.handleToolsCall(ctx, req)
	default:
		s.sendErrorResponse(req.ID, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
	}
}

// validateRequest validates the basic structure of a JSON-RPC request.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}

	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	return nil
}

// requireReady enforces the handshake state machine: discovery and
// invocation methods are only accepted in the Ready state. Out-of-order
// messages fail with a protocol violation error.
func (s *Server) requireReady(req *domain.Request) bool {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state != stateReady {
		s.sendErrorResponse(req.ID, domain.ProtocolViolationError, "Protocol violation",
			fmt.Sprintf("method %s not allowed in state %s: handshake not completed", req.Method, state))
		return false
	}

	return true
}

// setState transitions the session state machine.
func (s *Server) setState(state sessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// handleInitialize handles the MCP initialize method.
// This is the first half of the handshake; the client completes it with
// the notifications/initialized notification.
func (s *Server) handleInitialize(req *domain.Request) map[string]interface{} {
	s.mu.Lock()
	s.state = stateHandshaking
	s.mu.Unlock()

	return map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"prompts":   map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": serverVersion,
		},
	}
}

// handleInitialized completes the handshake. It is a notification, so
// no response is sent.
func (s *Server) handleInitialized() {
	s.mu.Lock()
	if s.state == stateHandshaking {
		s.state = stateReady
	}
	state := s.state
	s.mu.Unlock()

	s.logger.LogInfo("handshake completed", map[string]interface{}{
		"state": state.String(),
	})
}

// handleToolsCall handles the MCP tools/call method.
// Executes a tool call by routing it to the appropriate handler.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) {
	toolReq, err := s.parseToolRequest(req.Params)
	if err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidParams, "Invalid params", err.Error())
		return
	}

	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		s.logger.LogError("tool execution failed", err, map[string]interface{}{
			"tool":       toolReq.Name,
			"request_id": req.ID,
		})
		s.sendMappedError(req.ID, err)
		return
	}

	s.sendResult(req.ID, toolResp)
}

// parseToolRequest parses the params field into a ToolRequest.
func (s *Server) parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	// Round-trip through JSON to handle both map[string]interface{} and
	// already-parsed structs.
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}

	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// sendResult sends a successful JSON-RPC response.
func (s *Server) sendResult(id interface{}, result interface{}) {
	response := &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send response", err, map[string]interface{}{
			"request_id": id,
		})
	}
}

// sendErrorResponse sends a JSON-RPC error response.
func (s *Server) sendErrorResponse(id interface{}, code int, message string, data interface{}) {
	response := &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &domain.Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send error response", err, map[string]interface{}{
			"request_id":    id,
			"error_code":    code,
			"error_message": message,
		})
	}
}

// sendMappedError maps a typed error to its JSON-RPC error and sends it.
func (s *Server) sendMappedError(id interface{}, err error) {
	code := domain.InternalError
	message := "Internal error"

	switch e := err.(type) {
	case *domain.ErrorEnvelope:
		code = domain.ErrorCodeForKind(e.Kind)
		message = e.Kind.String()
	case *domain.Error:
		code = e.Code
		message = e.Message
	}

	s.sendErrorResponse(id, code, message, err.Error())
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.setState(stateClosed)
	s.logger.LogInfo("closing server", nil)
	return s.transport.Close()
}

// StructuredLogger provides structured logging with context. Entries go
// to stderr via the standard logger so they never interleave with the
// protocol stream on stdout.
type StructuredLogger struct {
	logger *log.Logger
}

// NewStructuredLogger creates a new structured logger.
func NewStructuredLogger() *StructuredLogger {
	return &StructuredLogger{
		logger: log.Default(),
	}
}

// LogInfo logs an informational message with context.
func (l *StructuredLogger) LogInfo(message string, context map[string]interface{}) {
	entry := l.buildLogEntry("INFO", message, nil, context)
	l.logger.Println(entry)
}

// LogError logs an error message with context.
func (l *StructuredLogger) LogError(message string, err error, context map[string]interface{}) {
	entry := l.buildLogEntry("ERROR", message, err, context)
	l.logger.Println(entry)
}

// buildLogEntry constructs a structured log entry.
func (l *StructuredLogger) buildLogEntry(level, message string, err error, context map[string]interface{}) string {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"message":   message,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range context {
		entry[k] = v
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry","error":"%s"}`, err.Error())
	}

	return string(jsonData)
}
