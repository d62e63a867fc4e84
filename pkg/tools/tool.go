// Package tools implements the tool registry described in spec.md §4.7:
// name-keyed storage of callable, JSON-Schema-typed tools, and the
// callTool/listTools semantics the service facade delegates to.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// Tool is a named, JSON-Schema-typed callable exposed to the client. Tools
// are only ever constructed via Builder and never mutated after
// registration (spec.md §3 "Entity: Tool").
type Tool struct {
	Name        string
	Description string
	handler     handler.Handler
}

// Func is the typed contract a tool handler implements: given state and a
// deserialized input, produce the ordered content the client should see.
// A handler that wants to signal a tool-level failure (as opposed to a
// transport-level JSON-RPC error) returns a *ToolError from NewToolError.
type Func[I any] func(ctx context.Context, state handler.State, input I) ([]protocol.Content, error)

// ToolError lets a handler signal isError=true with explanatory content
// instead of a JSON-RPC error (spec.md §4.7).
type ToolError struct {
	Content []protocol.Content
}

func (e *ToolError) Error() string {
	if len(e.Content) > 0 {
		return e.Content[0].Text
	}
	return "tool execution failed"
}

// NewToolError builds a *ToolError from a plain message.
func NewToolError(format string, args ...any) error {
	return &ToolError{Content: []protocol.Content{protocol.TextContent(fmt.Sprintf(format, args...))}}
}

// Registry stores tools in a name -> Tool mapping, preserving insertion
// order for listTools.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byName map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register inserts or replaces a tool by name (spec.md §4.7 "register").
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.byName[t.Name] = t
}

// List returns all tools in insertion order, projected for the wire.
func (r *Registry) List() []protocol.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		out = append(out, protocol.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.handler.Schema(),
		})
	}
	return out
}

// Call resolves name and invokes its handler with arguments (defaulting a
// missing/empty arguments object to `{}`, spec.md §8 boundary behavior),
// wrapping the result into a CallToolResult (spec.md §4.7).
func (r *Registry) Call(ctx context.Context, state handler.State, name string, arguments json.RawMessage) (*protocol.CallToolResult, error) {
	r.mu.RLock()
	t, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, protocol.NewError(protocol.ErrNotFound, "Tool '%s' not found", name)
	}
	if len(arguments) == 0 {
		arguments = json.RawMessage("{}")
	}
	result, err := t.handler.Run(ctx, state, arguments)
	if err != nil {
		return nil, err
	}
	res, ok := result.(*protocol.CallToolResult)
	if !ok {
		return nil, protocol.NewError(protocol.ErrInternal, "tool '%s' handler returned an unexpected result type", name)
	}
	return res, nil
}
