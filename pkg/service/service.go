// Package service implements BasicService, the facade that answers every
// MCP method by delegating to the tool/prompt/resource registries and
// owning the subscription engine (spec.md §3 "Entity: Subscription", §4.9
// "subscribe/unsubscribe").
package service

import (
	"context"
	"sync"

	"github.com/richard-senior/mcp-core/internal/logger"
	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/prompts"
	"github.com/richard-senior/mcp-core/pkg/protocol"
	"github.com/richard-senior/mcp-core/pkg/resources"
	"github.com/richard-senior/mcp-core/pkg/tools"
)

// NotifySink receives server-originated notifications (currently only
// resourceUpdated) for a transport to relay however it sees fit.
type NotifySink func(n *protocol.Notification)

// BasicService is the one Service implementation this core ships: a
// straightforward composition of the three registries plus the
// subscription engine, grounded on the teacher's singleton Server in
// pkg/server/server.go, generalized from its single hard-coded handler
// table into delegation across three independently built registries.
type BasicService struct {
	name         string
	version      string
	instructions string

	Tools     *tools.Registry
	Prompts   *prompts.Registry
	Resources *resources.Registry

	notify NotifySink

	mu   sync.Mutex
	subs map[string]context.CancelFunc
}

// New builds a BasicService. name/version/instructions feed the
// initialize result verbatim.
func New(name, version, instructions string, toolReg *tools.Registry, promptReg *prompts.Registry, resourceReg *resources.Registry) *BasicService {
	return &BasicService{
		name:         name,
		version:      version,
		instructions: instructions,
		Tools:        toolReg,
		Prompts:      promptReg,
		Resources:    resourceReg,
		subs:         make(map[string]context.CancelFunc),
	}
}

// SetNotifySink installs the function the subscription engine calls to
// emit resourceUpdated notifications. Transports call this once during
// wiring, before serving any requests.
func (s *BasicService) SetNotifySink(sink NotifySink) { s.notify = sink }

func (s *BasicService) Initialize(_ context.Context, _ handler.State, _ protocol.InitializeParams) (*protocol.InitializeResult, error) {
	return &protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities: protocol.ServerCapabilities{
			Tools:     &protocol.ToolsCapability{ListChanged: false},
			Prompts:   &protocol.PromptsCapability{ListChanged: false},
			Resources: &protocol.ResourcesCapability{Subscribe: true, ListChanged: false},
		},
		Instructions: s.instructions,
		ServerInfo:   protocol.Implementation{Name: s.name, Version: s.version},
	}, nil
}

func (s *BasicService) Ping(_ context.Context, _ handler.State) (*protocol.EmptyResult, error) {
	return &protocol.EmptyResult{}, nil
}

func (s *BasicService) ListResources(_ context.Context, _ handler.State) (*protocol.ListResourcesResult, error) {
	return &protocol.ListResourcesResult{Resources: s.Resources.ListFixed()}, nil
}

func (s *BasicService) ListResourceTemplates(_ context.Context, _ handler.State) (*protocol.ListResourceTemplatesResult, error) {
	return &protocol.ListResourceTemplatesResult{ResourceTemplates: s.Resources.ListTemplates()}, nil
}

func (s *BasicService) ReadResource(ctx context.Context, state handler.State, params protocol.ReadResourceParams) (*protocol.ReadResourceResult, error) {
	contents, err := s.Resources.Read(ctx, state, params.URI)
	if err != nil {
		return nil, err
	}
	return &protocol.ReadResourceResult{Contents: contents}, nil
}

// Subscribe resolves uri (404 if unknown) and spawns a watcher goroutine
// that loops on Source.WaitForChange, emitting resourceUpdated each time
// it returns nil. Subscribing an already-subscribed uri replaces the
// prior watcher (spec.md §3 "Entity: Subscription" invariant).
func (s *BasicService) Subscribe(ctx context.Context, state handler.State, params protocol.SubscribeParams) (*protocol.EmptyResult, error) {
	res, err := s.Resources.Resolve(params.URI)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if old, exists := s.subs[params.URI]; exists {
		old()
	}
	s.subs[params.URI] = cancel
	s.mu.Unlock()

	go s.watch(watchCtx, state, res, params.URI)

	return &protocol.EmptyResult{}, nil
}

func (s *BasicService) watch(ctx context.Context, state handler.State, res resources.Resource, uri string) {
	for {
		if err := res.Source.WaitForChange(ctx, state, uri); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if s.notify == nil {
			continue
		}
		n, err := protocol.NewNotification(protocol.NotificationResourceUpdated, protocol.ResourceUpdatedParams{URI: uri})
		if err != nil {
			logger.Error("service: building resourceUpdated notification for %s: %v", uri, err)
			continue
		}
		s.notify(n)
	}
}

// Unsubscribe cancels uri's watcher; an unknown uri is a no-op (spec.md
// §4.9 "unsubscribe an unsubscribed uri").
func (s *BasicService) Unsubscribe(_ context.Context, _ handler.State, params protocol.UnsubscribeParams) (*protocol.EmptyResult, error) {
	s.mu.Lock()
	cancel, exists := s.subs[params.URI]
	if exists {
		delete(s.subs, params.URI)
	}
	s.mu.Unlock()
	if exists {
		cancel()
	}
	return &protocol.EmptyResult{}, nil
}

func (s *BasicService) ListPrompts(_ context.Context, _ handler.State) (*protocol.ListPromptsResult, error) {
	return &protocol.ListPromptsResult{Prompts: s.Prompts.List()}, nil
}

func (s *BasicService) GetPrompt(ctx context.Context, state handler.State, params protocol.GetPromptParams) (*protocol.GetPromptResult, error) {
	return s.Prompts.Get(ctx, state, params.Name, params.Arguments)
}

func (s *BasicService) ListTools(_ context.Context, _ handler.State) (*protocol.ListToolsResult, error) {
	return &protocol.ListToolsResult{Tools: s.Tools.List()}, nil
}

func (s *BasicService) CallTool(ctx context.Context, state handler.State, params protocol.CallToolParams) (*protocol.CallToolResult, error) {
	return s.Tools.Call(ctx, state, params.Name, params.Arguments)
}

// SetLevel is not implemented by this core (SPEC_FULL §12: resolved Open
// Question, stubbed 501 rather than silently accepted).
func (s *BasicService) SetLevel(_ context.Context, _ handler.State, _ protocol.SetLevelParams) (*protocol.EmptyResult, error) {
	return nil, protocol.NewError(protocol.ErrNotImplemented, "not implemented")
}

// Complete always succeeds with an empty result (SPEC_FULL §12).
func (s *BasicService) Complete(_ context.Context, _ handler.State, _ protocol.CompleteParams) (*protocol.CompleteResult, error) {
	return &protocol.CompleteResult{}, nil
}

// activeSubscriptions reports the uris with a live watcher; unexported,
// used by this package's tests that assert teardown timing (spec.md §6
// invariant 4).
func (s *BasicService) activeSubscriptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.subs))
	for uri := range s.subs {
		out = append(out, uri)
	}
	return out
}
