package resources

import "github.com/richard-senior/mcp-core/pkg/protocol"

// NewHistoryResource builds the fixed history://x resource used in the
// subscribe/change scenario (spec.md §8 S4): a MemoryResource a host
// application updates with Set, producing resourceUpdated notifications
// for every subscriber.
func NewHistoryResource() (Resource, *MemoryResource, error) {
	mem := NewMemoryResource(protocol.ResourceContents{
		URI:      "history://x",
		MimeType: "text/plain",
		Text:     "",
	})
	res, err := NewResource("history://x").
		Name("history").
		Description("In-memory history log, updated by host code via Set").
		MimeType("text/plain").
		Source(mem).
		Build()
	return res, mem, err
}

// NewDocumentTemplateResource builds a doc://{id} template resource
// backed by a SQLiteResource, exercising this core's RFC 6570 template
// matching against durable, multi-key storage.
func NewDocumentTemplateResource(store *SQLiteResource) (Resource, error) {
	return NewResourceTemplate("doc://{id}").
		Name("document").
		Description("A document stored in the local sqlite-backed document store").
		MimeType("text/plain").
		Source(store).
		Build()
}
