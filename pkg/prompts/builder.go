package prompts

import (
	"context"
	"reflect"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// Builder fluently constructs a Prompt. It is the only supported
// construction path (spec.md §4.12).
type Builder[I any] struct {
	name        string
	description string
	fn          Func[I]
}

func NewPrompt[I any](name string) *Builder[I] {
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

// Build derives the argument list from I's top-level fields and fails if
// any field is neither string nor *string (spec.md §3 "Entity: Prompt",
// §4.8 "Any other shape fails registration with code 500").
func (b *Builder[I]) Build() (Prompt, error) {
	if b.name == "" {
		return Prompt{}, protocol.NewError(protocol.ErrConstruction, "prompt: name is required")
	}
	if b.fn == nil {
		return Prompt{}, protocol.NewError(protocol.ErrConstruction, "prompt %q: handler is required", b.name)
	}
	args, err := deriveArguments[I]()
	if err != nil {
		return Prompt{}, protocol.NewError(protocol.ErrConstruction, "prompt %q: %v", b.name, err)
	}
	fn := b.fn
	wrapped := handler.New(func(ctx context.Context, state handler.State, in I) (*protocol.GetPromptResult, error) {
		messages, err := fn(ctx, state, in)
		if err != nil {
			return nil, err
		}
		return &protocol.GetPromptResult{Messages: messages}, nil
	})
	return Prompt{Name: b.name, Description: b.description, Arguments: args, handler: wrapped}, nil
}

// deriveArguments reflects on I's exported fields. Each must be a string
// (required) or *string (optional); name comes from the `json` tag (field
// name with its first letter lowercased as a fallback) and description
// from the `desc` tag.
func deriveArguments[I any]() ([]protocol.PromptArgument, error) {
	var zero I
	t := reflect.TypeOf(zero)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, protocol.NewError(protocol.ErrConstruction, "input type must be a struct")
	}

	var args []protocol.PromptArgument
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		if name == "-" {
			continue
		}
		desc := f.Tag.Get("desc")

		switch f.Type.Kind() {
		case reflect.String:
			args = append(args, protocol.PromptArgument{Name: name, Description: desc, Required: true})
		case reflect.Pointer:
			if f.Type.Elem().Kind() != reflect.String {
				return nil, protocol.NewError(protocol.ErrConstruction, "field %q must be string or *string, got *%s", f.Name, f.Type.Elem().Kind())
			}
			args = append(args, protocol.PromptArgument{Name: name, Description: desc, Required: false})
		default:
			return nil, protocol.NewError(protocol.ErrConstruction, "field %q must be string or *string, got %s", f.Name, f.Type.Kind())
		}
	}
	return args, nil
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return lowerFirst(f.Name)
	}
	name := tag
	for i, c := range tag {
		if c == ',' {
			name = tag[:i]
			break
		}
	}
	if name == "" {
		return lowerFirst(f.Name)
	}
	return name
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
