package tools

import (
	"context"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// Builder fluently constructs a Tool. It is the only supported
// construction path (spec.md §4.12).
type Builder[I any] struct {
	name        string
	description string
	fn          Func[I]
}

// NewTool starts building a tool named name with input type I.
func NewTool[I any](name string) *Builder[I] {
	return &Builder[I]{name: name}
}

func (b *Builder[I]) Description(d string) *Builder[I] {
	b.description = d
	return b
}

func (b *Builder[I]) Handler(fn Func[I]) *Builder[I] {
	b.fn = fn
	return b
}

// Build validates required fields and erases the typed handler behind the
// uniform dynamic-dispatch interface, extracting I's JSON-Schema once.
// Build failures are construction errors (code 500, spec.md §4.12).
func (b *Builder[I]) Build() (Tool, error) {
	if b.name == "" {
		return Tool{}, protocol.NewError(protocol.ErrConstruction, "tool: name is required")
	}
	if b.fn == nil {
		return Tool{}, protocol.NewError(protocol.ErrConstruction, "tool %q: handler is required", b.name)
	}
	fn := b.fn
	wrapped := handler.New(func(ctx context.Context, state handler.State, in I) (*protocol.CallToolResult, error) {
		content, err := fn(ctx, state, in)
		if err != nil {
			if te, ok := err.(*ToolError); ok {
				return &protocol.CallToolResult{Content: te.Content, IsError: true}, nil
			}
			return nil, err
		}
		return &protocol.CallToolResult{Content: content, IsError: false}, nil
	})
	return Tool{Name: b.name, Description: b.description, handler: wrapped}, nil
}
