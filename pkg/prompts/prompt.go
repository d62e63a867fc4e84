// Package prompts implements the prompt registry described in spec.md
// §4.8: named templates whose arguments are restricted to string or
// optional-string fields, producing an ordered sequence of chat messages.
package prompts

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// Prompt is a named template; Arguments is derived from the handler's
// input type at build time and preserved in struct-field order.
type Prompt struct {
	Name        string
	Description string
	Arguments   []protocol.PromptArgument
	handler     handler.Handler
}

// Func is the typed contract a prompt handler implements.
type Func[I any] func(ctx context.Context, state handler.State, input I) ([]protocol.PromptMessage, error)

// Registry stores prompts in a name -> Prompt mapping, preserving
// insertion order for listPrompts.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Prompt
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Prompt)}
}

func (r *Registry) Register(p Prompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[p.Name]; !exists {
		r.order = append(r.order, p.Name)
	}
	r.byName[p.Name] = p
}

func (r *Registry) List() []protocol.PromptDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.PromptDescriptor, 0, len(r.order))
	for _, name := range r.order {
		p := r.byName[name]
		out = append(out, protocol.PromptDescriptor{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   p.Arguments,
		})
	}
	return out
}

// Get resolves name and dispatches arguments (a string->string mapping,
// converted to a JSON object of string values) through the handler,
// wrapping the result into a GetPromptResult (spec.md §4.8).
func (r *Registry) Get(ctx context.Context, state handler.State, name string, arguments map[string]string) (*protocol.GetPromptResult, error) {
	r.mu.RLock()
	p, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, protocol.NewError(protocol.ErrNotFound, "Prompt '%s' not found", name)
	}
	for _, arg := range p.Arguments {
		if !arg.Required {
			continue
		}
		if _, present := arguments[arg.Name]; !present {
			return nil, protocol.NewError(protocol.ErrBadInput, "Failed to deserialize arguments: missing required argument %q", arg.Name)
		}
	}
	raw, err := json.Marshal(arguments)
	if err != nil {
		return nil, protocol.NewError(protocol.ErrBadInput, "Failed to deserialize arguments: %v", err)
	}
	result, err := p.handler.Run(ctx, state, raw)
	if err != nil {
		return nil, err
	}
	res, ok := result.(*protocol.GetPromptResult)
	if !ok {
		return nil, protocol.NewError(protocol.ErrInternal, "prompt '%s' handler returned an unexpected result type", name)
	}
	res.Description = p.Description
	return res, nil
}
