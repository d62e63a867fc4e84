// Package handler implements the generic, reflective binding described in
// spec.md §4.6: user-supplied handler functions, each with its own input
// and output types, stored behind one uniform dynamic-dispatch interface.
// JSON-Schema extraction runs once at registration and is cached on the
// adapter, grounded on the same generic-erasure shape as
// ktr0731/go-mcp's serverHandler[Req] (other_examples), but using
// invopop/jsonschema for the schema half since this core also needs
// introspectable input schemas for tools, which that reference
// implementation left to generated code.
package handler

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// State is the opaque, user-supplied context threaded through every
// handler invocation. Implementations must be cheap to duplicate and safe
// for concurrent use; the service facade clones it once per dispatch
// (spec.md §3 "Ownership", §9 "State passed by clone per call").
type State interface {
	Clone() State
}

// NoState is the zero-value State for servers that need none.
type NoState struct{}

func (NoState) Clone() State { return NoState{} }

// Handler is the uniform interface every typed tool/prompt handler is
// erased to. Run deserializes raw into the concrete input type, invokes
// the user function, and returns the erased result.
type Handler interface {
	Run(ctx context.Context, state State, raw json.RawMessage) (any, error)
	Schema() *jsonschema.Schema
}

var reflector = &jsonschema.Reflector{
	ExpandedStruct:            true,
	DoNotReference:            true,
	AllowAdditionalProperties: false,
}

// SchemaFor reflects the JSON-Schema of I once; callers cache the result.
func SchemaFor[I any]() *jsonschema.Schema {
	var zero I
	return reflector.Reflect(zero)
}

// Func is a typed handler: (State, I) -> (O, error).
type Func[I any, O any] func(ctx context.Context, state State, input I) (O, error)

type adapter[I any, O any] struct {
	fn     Func[I, O]
	schema *jsonschema.Schema
}

// New erases a typed handler function into the uniform Handler interface,
// extracting I's JSON-Schema once (spec.md §4.6 point 3: "Schema
// extraction is performed once at registration and cached").
func New[I any, O any](fn Func[I, O]) Handler {
	return &adapter[I, O]{fn: fn, schema: SchemaFor[I]()}
}

func (a *adapter[I, O]) Schema() *jsonschema.Schema { return a.schema }

func (a *adapter[I, O]) Run(ctx context.Context, state State, raw json.RawMessage) (any, error) {
	var in I
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, protocol.NewError(protocol.ErrBadInput, "Failed to deserialize arguments: %v", err)
		}
	}
	out, err := a.fn(ctx, state, in)
	if err != nil {
		return nil, err
	}
	return out, nil
}
