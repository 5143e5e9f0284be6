package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"responsive-mcp-server/internal/domain"
)

// protocolVersion is the MCP protocol version advertised during initialization.
const protocolVersion = "2024-11-05"

// Client identity sent in the initialize request.
const (
	clientName    = "responsive-client"
	clientVersion = "1.0.0"
)

// callToolResult is the result payload of a tools/call response.
type callToolResult struct {
	Content []domain.ContentBlock `json:"content"`
	IsError bool                  `json:"isError,omitempty"`
}

// toolsListResult is the result payload of a tools/list response.
type toolsListResult struct {
	Tools []domain.ToolDefinition `json:"tools"`
}

// promptsListResult is the result payload of a prompts/list response.
type promptsListResult struct {
	Prompts []domain.PromptDefinition `json:"prompts"`
}

// resourcesListResult is the result payload of a resources/list response.
type resourcesListResult struct {
	Resources []domain.ResourceDefinition `json:"resources"`
}

// serverInfo is returned in the initialize response.
type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// initializeResult is the full initialize response result.
type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      serverInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

// Session connects to a single MCP server process and provides typed
// access to the protocol operations. Calls are issued and awaited
// sequentially; each blocks until its correlated response arrives or
// the channel closes.
type Session struct {
	transport Transport
	logger    *slog.Logger

	mu          sync.RWMutex
	initialized bool
	serverName  string
	serverVer   string
}

// NewSession creates a session over the given transport. The transport
// determines how messages are delivered; in this repository that is the
// stdio subprocess pipe.
func NewSession(transport Transport, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		transport: transport,
		logger:    logger,
	}
}

// Initialize performs the MCP handshake: sends an initialize request
// and then the notifications/initialized notification. No other call is
// valid before this completes.
func (s *Session) Initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    clientName,
			"version": clientVersion,
		},
	}

	resp, err := s.send(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	var result initializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return fmt.Errorf("unmarshal initialize result: %w", err)
	}

	s.mu.Lock()
	s.initialized = true
	s.serverName = result.ServerInfo.Name
	s.serverVer = result.ServerInfo.Version
	s.mu.Unlock()

	s.logger.Info("MCP server initialized",
		"server_name", result.ServerInfo.Name,
		"server_version", result.ServerInfo.Version,
		"protocol_version", result.ProtocolVersion,
	)

	// Send the initialized notification to complete the handshake.
	if err := s.transport.Notify(ctx, NewNotification("notifications/initialized", nil)); err != nil {
		return fmt.Errorf("send initialized notification: %w", err)
	}

	return nil
}

// ListTools calls tools/list and returns the available tool definitions.
// An empty list is a valid answer.
func (s *Session) ListTools(ctx context.Context) ([]domain.ToolDefinition, error) {
	resp, err := s.send(ctx, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}

	var result toolsListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal tools/list result: %w", err)
	}

	s.logger.Info("discovered MCP tools", "count", len(result.Tools))
	return result.Tools, nil
}

// ListPrompts calls prompts/list and returns the available prompt definitions.
func (s *Session) ListPrompts(ctx context.Context) ([]domain.PromptDefinition, error) {
	resp, err := s.send(ctx, "prompts/list", nil)
	if err != nil {
		return nil, fmt.Errorf("prompts/list: %w", err)
	}

	var result promptsListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal prompts/list result: %w", err)
	}

	return result.Prompts, nil
}

// ListResources calls resources/list and returns the available resource definitions.
func (s *Session) ListResources(ctx context.Context) ([]domain.ResourceDefinition, error) {
	resp, err := s.send(ctx, "resources/list", nil)
	if err != nil {
		return nil, fmt.Errorf("resources/list: %w", err)
	}

	var result resourcesListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal resources/list result: %w", err)
	}

	return result.Resources, nil
}

// CallTool invokes a tool by name with the given arguments and returns
// a RemoteResult. Server-side failures arrive either as JSON-RPC errors
// or as IsError tool responses; both are surfaced as ErrorEnvelopes so
// the caller sees the same taxonomy the server applied. The session
// itself never fails the calling flow on a remote-side failure.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) domain.RemoteResult {
	params := map[string]any{
		"name":      name,
		"arguments": args,
	}

	resp, err := s.send(ctx, "tools/call", params)
	if err != nil {
		return domain.Failure(envelopeFromError(err))
	}

	var result callToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return domain.Failure(domain.Envelope(domain.ErrDecode, "unmarshal tools/call result: %v", err))
	}

	text := extractText(result.Content)

	if result.IsError {
		return domain.Failure(parseEnvelopeText(text))
	}

	return domain.Success(text)
}

// Ping checks whether the MCP server is responsive.
func (s *Session) Ping(ctx context.Context) error {
	_, err := s.send(ctx, "ping", nil)
	return err
}

// ServerInfo returns the name and version reported during the handshake.
func (s *Session) ServerInfo() (name, version string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverName, s.serverVer
}

// Close shuts down the session and its transport, terminating the
// server subprocess.
func (s *Session) Close() error {
	s.logger.Info("closing MCP session")
	return s.transport.Close()
}

// send issues a JSON-RPC request with a fresh correlation id and checks
// for protocol-level errors.
func (s *Session) send(ctx context.Context, method string, params any) (*Response, error) {
	req := NewRequest(uuid.NewString(), method, params)

	resp, err := s.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	return resp, nil
}

// envelopeFromError converts a transport or protocol error into an
// ErrorEnvelope, preserving the kind when one is already attached.
func envelopeFromError(err error) *domain.ErrorEnvelope {
	if env, ok := err.(*domain.ErrorEnvelope); ok {
		return env
	}
	if rpcErr, ok := err.(*RPCError); ok {
		return domain.Envelope(kindForCode(rpcErr.Code), "%s", rpcErr.Message)
	}
	return domain.Envelope(domain.ErrUnexpected, "%v", err)
}

// kindForCode maps a JSON-RPC error code back to an ErrorKind.
// Inverse of domain.ErrorCodeForKind.
func kindForCode(code int) domain.ErrorKind {
	switch code {
	case domain.ConfigurationError:
		return domain.ErrConfiguration
	case domain.InvalidParams:
		return domain.ErrValidation
	case domain.NetworkError:
		return domain.ErrTransport
	case domain.HTTPStatusError:
		return domain.ErrHTTPStatus
	case domain.DecodeError:
		return domain.ErrDecode
	case domain.MethodNotFound:
		return domain.ErrUnknownTool
	case domain.ProtocolViolationError:
		return domain.ErrProtocolViolation
	default:
		return domain.ErrUnexpected
	}
}

// parseEnvelopeText recovers an ErrorEnvelope from the "kind: message"
// text form produced by the server's error path.
func parseEnvelopeText(text string) *domain.ErrorEnvelope {
	if kindStr, msg, found := strings.Cut(text, ": "); found {
		if kind, ok := domain.ParseErrorKind(kindStr); ok {
			return &domain.ErrorEnvelope{Kind: kind, Message: msg}
		}
	}
	return &domain.ErrorEnvelope{Kind: domain.ErrUnexpected, Message: text}
}

// extractText joins all text content blocks into a single string.
// Non-text blocks are represented as inline markers.
func extractText(blocks []domain.ContentBlock) string {
	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			parts = append(parts, b.Text)
		case "resource":
			parts = append(parts, "[resource]")
		default:
			parts = append(parts, fmt.Sprintf("[%s]", b.Type))
		}
	}
	return strings.Join(parts, "\n")
}
