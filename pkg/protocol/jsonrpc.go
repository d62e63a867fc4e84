// Package protocol defines the JSON-RPC 2.0 envelope and the MCP wire
// schemas carried inside it: requests, responses, notifications, the
// method table, and the error codes the rest of mcp-core returns.
//
// https://modelcontextprotocol.info/specification/draft/basic/lifecycle/
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the only JSON-RPC protocol version this server accepts.
const Version = "2.0"

// ProtocolVersion is the MCP protocol version advertised by initialize.
const ProtocolVersion = "2025-03-26"

// Method is the closed set of JSON-RPC methods the dispatcher recognizes.
type Method string

const (
	MethodInitialize            Method = "initialize"
	MethodPing                  Method = "ping"
	MethodListResources         Method = "listResources"
	MethodListResourceTemplates Method = "listResourceTemplates"
	MethodReadResource          Method = "readResource"
	MethodSubscribe             Method = "subscribe"
	MethodUnsubscribe           Method = "unsubscribe"
	MethodListPrompts           Method = "listPrompts"
	MethodGetPrompt             Method = "getPrompt"
	MethodListTools             Method = "listTools"
	MethodCallTool              Method = "callTool"
	MethodSetLevel              Method = "setLevel"
	MethodComplete              Method = "complete"
)

// NotificationCancelled is the only notification method the core consumes.
const NotificationCancelled = "cancelled"

// NotificationResourceUpdated is the only notification method the core emits
// (besides whatever transports choose to relay verbatim).
const NotificationResourceUpdated = "resourceUpdated"

// Standard JSON-RPC 2.0 error codes.
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

// Application-level error codes layered on top of the JSON-RPC standard set.
const (
	ErrBadInput       = 400
	ErrNotFound       = 404
	ErrConstruction   = 500
	ErrNotImplemented = 501
)

// RequestID is either a string or a number, per the JSON-RPC spec. The zero
// value is not a valid id; use NewStringID/NewIntID or ParseID.
type RequestID struct {
	str    string
	num    int64
	isStr  bool
	isNum  bool
}

func NewStringID(s string) RequestID { return RequestID{str: s, isStr: true} }
func NewIntID(n int64) RequestID     { return RequestID{num: n, isNum: true} }

// IsZero reports whether the id was never set (e.g. a notification).
func (r RequestID) IsZero() bool { return !r.isStr && !r.isNum }

// String renders the id for logging; it does not round-trip to JSON.
func (r RequestID) String() string {
	switch {
	case r.isStr:
		return r.str
	case r.isNum:
		return fmt.Sprintf("%d", r.num)
	default:
		return "<none>"
	}
}

// MarshalJSON emits the id as a bare string or number, matching the variant
// it was parsed as. A zero-value RequestID marshals to JSON null.
func (r RequestID) MarshalJSON() ([]byte, error) {
	switch {
	case r.isStr:
		return json.Marshal(r.str)
	case r.isNum:
		return json.Marshal(r.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, number, or null and records which
// variant was seen so that equality never crosses string/number identities.
func (r *RequestID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RequestID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RequestID{str: s, isStr: true}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RequestID{num: n, isNum: true}
		return nil
	}
	return fmt.Errorf("protocol: request id must be a string or number, got %s", data)
}

// Equal implements the tagged-variant equality spec.md's data model calls
// for: a string id and a number id are never equal even if their printed
// forms coincide ("1" != 1).
func (r RequestID) Equal(o RequestID) bool {
	if r.isStr != o.isStr || r.isNum != o.isNum {
		return false
	}
	if r.isStr {
		return r.str == o.str
	}
	if r.isNum {
		return r.num == o.num
	}
	return true // both zero
}

// Key returns a value suitable for use as a map key (RequestID itself is a
// valid comparable map key already, since all its fields participate in ==,
// but Key documents the intent at call sites that build in-flight maps).
func (r RequestID) Key() RequestID { return r }

// JsonRpcRequest is an incoming JSON-RPC 2.0 message. A zero ID means the
// message is a notification.
type JsonRpcRequest struct {
	JsonRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id,omitempty"`
	Method  Method          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the message carries no id.
func (r *JsonRpcRequest) IsNotification() bool { return r.ID.IsZero() }

// JsonRpcResponse is the reply to a JsonRpcRequest. Exactly one of Result
// or Error is set.
type JsonRpcResponse struct {
	JsonRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Notification is a server- or client-originated message without an id.
type Notification struct {
	JsonRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Error is a JSON-RPC 2.0 error object. It is also the error type every
// mcp-core component returns, so that the dispatcher never has to guess at
// what code/message to report on the wire.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("mcp: code=%d message=%s", e.Code, e.Message)
}

// NewError builds a *Error, the only error constructor application code
// should reach for (builders, registries, the service facade, and
// handlers all funnel through here or a wrapped version of it).
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError coerces any error into a *Error, defaulting to the JSON-RPC
// internal-error code for errors the core didn't originate itself. This is
// the dispatcher's sole error-mapping rule (SPEC_FULL §10.2).
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Code: ErrInternal, Message: err.Error()}
}

// NewResponse builds a success response, marshaling result into the Result
// field.
func NewResponse(id RequestID, result any) (*JsonRpcResponse, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &JsonRpcResponse{JsonRPC: Version, ID: id, Result: raw}, nil
}

// NewErrorResponse builds an error response, preserving the caller's id.
func NewErrorResponse(id RequestID, err *Error) *JsonRpcResponse {
	return &JsonRpcResponse{JsonRPC: Version, ID: id, Error: err}
}

// NewNotification builds an outgoing server notification.
func NewNotification(method string, params any) (*Notification, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return &Notification{JsonRPC: Version, Method: method, Params: raw}, nil
}

// CancelledParams is the payload of an incoming `cancelled` notification.
type CancelledParams struct {
	RequestID RequestID `json:"requestId"`
	Reason    string    `json:"reason,omitempty"`
}

// ResourceUpdatedParams is the payload of an outgoing `resourceUpdated`
// notification.
type ResourceUpdatedParams struct {
	URI string `json:"uri"`
}

// ParseClientMessage tries data first as a request, then as a notification,
// matching spec.md §4.1 ("Incoming messages are tried as request first,
// then notification"). It returns exactly one of the two non-nil.
func ParseClientMessage(data []byte) (req *JsonRpcRequest, notif *Notification, err error) {
	var envelope struct {
		JsonRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, err
	}
	if len(envelope.ID) == 0 || string(envelope.ID) == "null" {
		return nil, &Notification{JsonRPC: envelope.JsonRPC, Method: envelope.Method, Params: envelope.Params}, nil
	}
	var r JsonRpcRequest
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, nil, err
	}
	return &r, nil, nil
}
