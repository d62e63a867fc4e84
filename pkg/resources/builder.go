package resources

import "github.com/richard-senior/mcp-core/pkg/protocol"

// Builder fluently constructs a Resource. It is the only supported
// construction path (spec.md §4.12).
type Builder struct {
	res      Resource
	template bool
}

// NewResource starts building a fixed resource at uri.
func NewResource(uri string) *Builder {
	return &Builder{res: Resource{URI: uri}}
}

// NewResourceTemplate starts building a template resource over uriTemplate
// (an RFC 6570 string such as "history://{id}").
func NewResourceTemplate(uriTemplate string) *Builder {
	return &Builder{res: Resource{URI: uriTemplate, Template: true}, template: true}
}

func (b *Builder) Name(n string) *Builder {
	b.res.Name = n
	return b
}

func (b *Builder) Description(d string) *Builder {
	b.res.Description = d
	return b
}

func (b *Builder) MimeType(m string) *Builder {
	b.res.MimeType = m
	return b
}

func (b *Builder) Annotations(a map[string]any) *Builder {
	b.res.Annotations = a
	return b
}

func (b *Builder) Source(s Source) *Builder {
	b.res.Source = s
	return b
}

// Build validates required fields (code 500 on failure, spec.md §4.12).
func (b *Builder) Build() (Resource, error) {
	if b.res.URI == "" {
		return Resource{}, protocol.NewError(protocol.ErrConstruction, "resource: uri is required")
	}
	if b.res.Name == "" {
		return Resource{}, protocol.NewError(protocol.ErrConstruction, "resource %q: name is required", b.res.URI)
	}
	if b.res.Source == nil {
		return Resource{}, protocol.NewError(protocol.ErrConstruction, "resource %q: source is required", b.res.URI)
	}
	return b.res, nil
}
