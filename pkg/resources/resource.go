// Package resources implements the resource model described in spec.md
// §3 ("Entity: Resource", "Entity: Source") and §4.9: fixed and
// RFC-6570-template addressable data, each backed by a pluggable Source
// that knows how to read its contents and how to wait for a change.
package resources

import (
	"context"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// Source is the polymorphic backend of a resource.
type Source interface {
	Read(ctx context.Context, state handler.State, uri string) ([]protocol.ResourceContents, error)
	WaitForChange(ctx context.Context, state handler.State, uri string) error
}

// Resource is either a fixed URI (Template == false) or an RFC-6570-style
// template (Template == true). Resources are only ever constructed via
// Builder and never mutated after registration.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Annotations map[string]any
	Source      Source
	Template    bool
}

func (r Resource) descriptor() protocol.ResourceDescriptor {
	d := protocol.ResourceDescriptor{
		Name:        r.Name,
		Description: r.Description,
		MimeType:    r.MimeType,
		Annotations: r.Annotations,
	}
	if r.Template {
		d.URITemplate = r.URI
	} else {
		d.URI = r.URI
	}
	return d
}
