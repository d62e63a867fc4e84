package protocol

import "encoding/json"

// Implementation identifies either end of the connection in `initialize`.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsCapability, PromptsCapability and ResourcesCapability are the
// leaves of ServerCapabilities. listChanged is always false for this core
// (SPEC_FULL §1): nothing here supports dynamic re-registration
// notifications, so the fields exist purely to round-trip.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type PromptsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe"`
	ListChanged bool `json:"listChanged"`
}

type ServerCapabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
}

// InitializeParams is what the client sends; the core does not examine
// ClientCapabilities (spec.md §4.10).
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
	ClientInfo      Implementation `json:"clientInfo"`
}

type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	Instructions    string             `json:"instructions,omitempty"`
	ServerInfo      Implementation     `json:"serverInfo"`
}

// Content is a single piece of tool/prompt content. Only "text" is produced
// by this core's example tools, but the shape allows "image"/"resource"
// per the MCP content union.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

func TextContent(s string) Content { return Content{Type: "text", Text: s} }

// ToolDescriptor is the projection of a registered tool returned by
// listTools (spec.md §4.7: "{name, description?, inputSchema}").
type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InputSchema any    `json:"inputSchema"`
}

type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// PromptArgument is one entry of a prompt's ordered argument list.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// PromptDescriptor is the projection of a registered prompt returned by
// listPrompts.
type PromptDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

type ListPromptsResult struct {
	Prompts []PromptDescriptor `json:"prompts"`
}

type GetPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// ResourceDescriptor is the projection of a fixed or template resource
// returned by listResources / listResourceTemplates.
type ResourceDescriptor struct {
	URI         string         `json:"uri,omitempty"`
	URITemplate string         `json:"uriTemplate,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	MimeType    string         `json:"mimeType,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

type ListResourcesResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}

type ListResourceTemplatesResult struct {
	ResourceTemplates []ResourceDescriptor `json:"resourceTemplates"`
}

type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one item of a resource read; either Text or Blob is
// set depending on whether the source produced textual or binary content.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

type SubscribeParams struct {
	URI string `json:"uri"`
}

type UnsubscribeParams struct {
	URI string `json:"uri"`
}

// SetLevelParams and CompleteParams are accepted but not acted on
// (spec.md §4.10, §4.1): setLevel always fails 501, complete always
// succeeds empty.
type SetLevelParams struct {
	Level string `json:"level"`
}

type CompleteParams struct {
	Ref      map[string]any `json:"ref,omitempty"`
	Argument map[string]any `json:"argument,omitempty"`
}

type CompleteResult struct{}

type EmptyResult struct{}
