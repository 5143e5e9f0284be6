package domain

import "fmt"

// ErrorKind classifies failures across the tool-invocation bridge.
type ErrorKind int

const (
	// ErrConfiguration indicates a missing or invalid credential/configuration.
	ErrConfiguration ErrorKind = iota
	// ErrValidation indicates malformed tool arguments.
	ErrValidation
	// ErrTransport indicates a network-level failure (refused, timeout, DNS).
	ErrTransport
	// ErrHTTPStatus indicates a non-2xx response from the Responsive API.
	ErrHTTPStatus
	// ErrDecode indicates a malformed response body from the Responsive API.
	ErrDecode
	// ErrUnknownTool indicates an invocation of an unregistered tool.
	ErrUnknownTool
	// ErrProtocolViolation indicates a request sent before the handshake completed.
	ErrProtocolViolation
	// ErrChannelClosed indicates the RPC channel closed while a call was in flight.
	ErrChannelClosed
	// ErrUnexpected is the catch-all for failures outside the taxonomy.
	ErrUnexpected
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrConfiguration:
		return "configuration"
	case ErrValidation:
		return "validation"
	case ErrTransport:
		return "transport"
	case ErrHTTPStatus:
		return "http_status"
	case ErrDecode:
		return "decode"
	case ErrUnknownTool:
		return "unknown_tool"
	case ErrProtocolViolation:
		return "protocol_violation"
	case ErrChannelClosed:
		return "channel_closed"
	default:
		return "unexpected"
	}
}

// ParseErrorKind maps the string form back to an ErrorKind.
// Inverse of String for every kind in the taxonomy.
func ParseErrorKind(s string) (ErrorKind, bool) {
	switch s {
	case "configuration":
		return ErrConfiguration, true
	case "validation":
		return ErrValidation, true
	case "transport":
		return ErrTransport, true
	case "http_status":
		return ErrHTTPStatus, true
	case "decode":
		return ErrDecode, true
	case "unknown_tool":
		return ErrUnknownTool, true
	case "protocol_violation":
		return ErrProtocolViolation, true
	case "channel_closed":
		return ErrChannelClosed, true
	case "unexpected":
		return ErrUnexpected, true
	default:
		return ErrUnexpected, false
	}
}

// ErrorEnvelope is a typed failure returned from a boundary-crossing
// operation. It travels up through the dispatcher and RPC channel
// unchanged; no layer in the core converts it back into a panic or a
// bare error.
type ErrorEnvelope struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface for ErrorEnvelope.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Envelope constructs an ErrorEnvelope with a formatted message.
func Envelope(kind ErrorKind, format string, args ...interface{}) *ErrorEnvelope {
	return &ErrorEnvelope{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// RemoteResult is the outcome of a remote search call: either a success
// payload (the API response body, passed through verbatim) or an
// ErrorEnvelope. Never both.
type RemoteResult struct {
	Payload interface{}
	Err     *ErrorEnvelope
}

// OK reports whether the result carries a success payload.
func (r RemoteResult) OK() bool {
	return r.Err == nil
}

// Success wraps a payload in a RemoteResult.
func Success(payload interface{}) RemoteResult {
	return RemoteResult{Payload: payload}
}

// Failure wraps an ErrorEnvelope in a RemoteResult.
func Failure(env *ErrorEnvelope) RemoteResult {
	return RemoteResult{Err: env}
}
