package mcpclient

import "context"

// Transport is the interface for MCP server communication.
// Implementations handle framing, encoding, and correlation over a
// specific channel (the stdio subprocess pipe in this repository).
type Transport interface {
	// Send sends a JSON-RPC request and blocks until the correlated
	// response arrives or the channel closes.
	Send(ctx context.Context, req *Request) (*Response, error)

	// Notify sends a JSON-RPC notification (no response expected).
	Notify(ctx context.Context, notif *Notification) error

	// Close shuts down the transport and releases resources.
	// For stdio transports this terminates the subprocess.
	Close() error
}
