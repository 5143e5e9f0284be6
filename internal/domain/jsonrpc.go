package domain

// Request represents a JSON-RPC 2.0 request message.
type Request struct {
	JSONRPC string      `json:"jsonrpc"` // Must be "2.0"
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// IsNotification reports whether the request is a JSON-RPC notification.
// Notifications carry no ID and must not receive a response.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response represents a JSON-RPC 2.0 response message.
type Response struct {
	JSONRPC string      `json:"jsonrpc"` // Must be "2.0"
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	return e.Message
}

// JSON-RPC 2.0 error codes
const (
	// Standard JSON-RPC 2.0 error codes
	ParseError     = -32700 // Invalid JSON received
	InvalidRequest = -32600 // Invalid JSON-RPC request structure
	MethodNotFound = -32601 // Unknown MCP method or tool
	InvalidParams  = -32602 // Invalid method or tool parameters
	InternalError  = -32603 // Server internal error

	// Application-specific error codes
	ConfigurationError     = -32001 // Credential or configuration missing
	ProtocolViolationError = -32002 // Request sent before handshake completed
	HTTPStatusError        = -32003 // Responsive API returned non-2xx status
	NetworkError           = -32004 // Network connectivity issue
	DecodeError            = -32005 // Malformed response body from Responsive
)

// ErrorCodeForKind maps a result ErrorKind to its JSON-RPC error code.
// Used when an ErrorEnvelope has to cross the RPC wire as a protocol error.
func ErrorCodeForKind(kind ErrorKind) int {
	switch kind {
	case ErrConfiguration:
		return ConfigurationError
	case ErrValidation:
		return InvalidParams
	case ErrTransport:
		return NetworkError
	case ErrHTTPStatus:
		return HTTPStatusError
	case ErrDecode:
		return DecodeError
	case ErrUnknownTool:
		return MethodNotFound
	case ErrProtocolViolation:
		return ProtocolViolationError
	default:
		return InternalError
	}
}
