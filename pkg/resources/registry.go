package resources

import (
	"context"
	"sync"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

type templateEntry struct {
	resource Resource
	matcher  *compiledTemplate
}

// Registry maintains fixed and template resources (spec.md §3 "Entity:
// Resource", §4.9). Lookup order: exact match in fixed, then first
// matching template in registration order, then 404.
type Registry struct {
	mu          sync.RWMutex
	fixedOrder  []string
	fixed       map[string]Resource
	templates   []templateEntry
}

func NewRegistry() *Registry {
	return &Registry{fixed: make(map[string]Resource)}
}

// Register routes res to RegisterFixed or RegisterTemplate depending on
// how it was built.
func (r *Registry) Register(res Resource) error {
	if res.Template {
		return r.RegisterTemplate(res)
	}
	r.RegisterFixed(res)
	return nil
}

// RegisterFixed inserts or replaces a fixed resource by URI.
func (r *Registry) RegisterFixed(res Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.fixed[res.URI]; !exists {
		r.fixedOrder = append(r.fixedOrder, res.URI)
	}
	r.fixed[res.URI] = res
}

// RegisterTemplate appends a template resource, compiling its matcher
// once (spec.md §4.9, §9: a one-shot cost, never on the hot path).
func (r *Registry) RegisterTemplate(res Resource) error {
	matcher, err := compileTemplate(res.URI)
	if err != nil {
		return protocol.NewError(protocol.ErrConstruction, "%v", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = append(r.templates, templateEntry{resource: res, matcher: matcher})
	return nil
}

// Resolve finds the resource governing uri (spec.md §4.9 lookup policy).
func (r *Registry) Resolve(uri string) (Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if res, ok := r.fixed[uri]; ok {
		return res, nil
	}
	for _, t := range r.templates {
		if _, ok := t.matcher.match(uri); ok {
			return t.resource, nil
		}
	}
	return Resource{}, protocol.NewError(protocol.ErrNotFound, "Resource '%s' not found", uri)
}

// ListFixed enumerates fixed entries only.
func (r *Registry) ListFixed() []protocol.ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.ResourceDescriptor, 0, len(r.fixedOrder))
	for _, uri := range r.fixedOrder {
		out = append(out, r.fixed[uri].descriptor())
	}
	return out
}

// ListTemplates enumerates templates only, in registration order.
func (r *Registry) ListTemplates() []protocol.ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.ResourceDescriptor, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t.resource.descriptor())
	}
	return out
}

// Read resolves uri and delegates to its Source.
func (r *Registry) Read(ctx context.Context, state handler.State, uri string) ([]protocol.ResourceContents, error) {
	res, err := r.Resolve(uri)
	if err != nil {
		return nil, err
	}
	return res.Source.Read(ctx, state, uri)
}
