// Package dispatch implements the pure request-routing function described
// in spec.md §4.1: given a parsed JsonRpcRequest, call the matching Service
// method and build the JsonRpcResponse, never touching a socket or
// goroutine itself (that is the transport layer's job).
package dispatch

import (
	"context"
	"encoding/json"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// Service is the full surface the dispatcher routes against. BasicService
// (pkg/service) is the one implementation this core ships, but the
// interface keeps dispatch decoupled from it for testing.
type Service interface {
	Initialize(ctx context.Context, state handler.State, params protocol.InitializeParams) (*protocol.InitializeResult, error)
	Ping(ctx context.Context, state handler.State) (*protocol.EmptyResult, error)
	ListResources(ctx context.Context, state handler.State) (*protocol.ListResourcesResult, error)
	ListResourceTemplates(ctx context.Context, state handler.State) (*protocol.ListResourceTemplatesResult, error)
	ReadResource(ctx context.Context, state handler.State, params protocol.ReadResourceParams) (*protocol.ReadResourceResult, error)
	Subscribe(ctx context.Context, state handler.State, params protocol.SubscribeParams) (*protocol.EmptyResult, error)
	Unsubscribe(ctx context.Context, state handler.State, params protocol.UnsubscribeParams) (*protocol.EmptyResult, error)
	ListPrompts(ctx context.Context, state handler.State) (*protocol.ListPromptsResult, error)
	GetPrompt(ctx context.Context, state handler.State, params protocol.GetPromptParams) (*protocol.GetPromptResult, error)
	ListTools(ctx context.Context, state handler.State) (*protocol.ListToolsResult, error)
	CallTool(ctx context.Context, state handler.State, params protocol.CallToolParams) (*protocol.CallToolResult, error)
	SetLevel(ctx context.Context, state handler.State, params protocol.SetLevelParams) (*protocol.EmptyResult, error)
	Complete(ctx context.Context, state handler.State, params protocol.CompleteParams) (*protocol.CompleteResult, error)
}

// Dispatch routes req to the matching Service method and builds its
// response. It never returns a Go error: any failure is folded into the
// response's Error field, since every caller wants a JsonRpcResponse to
// write back (spec.md §4.1 "Processing per request").
func Dispatch(ctx context.Context, svc Service, state handler.State, req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	if req.JsonRPC != protocol.Version {
		return protocol.NewErrorResponse(req.ID, protocol.NewError(protocol.ErrBadInput,
			"Client is using JSON RPC version %s, but server only supports version %s", req.JsonRPC, protocol.Version))
	}

	result, err := route(ctx, svc, state, req.Method, req.Params)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.AsError(err))
	}
	resp, err := protocol.NewResponse(req.ID, result)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.AsError(err))
	}
	return resp
}

func route(ctx context.Context, svc Service, state handler.State, method protocol.Method, raw json.RawMessage) (any, error) {
	switch method {
	case protocol.MethodInitialize:
		var p protocol.InitializeParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.Initialize(ctx, state, p)

	case protocol.MethodPing:
		return svc.Ping(ctx, state)

	case protocol.MethodListResources:
		return svc.ListResources(ctx, state)

	case protocol.MethodListResourceTemplates:
		return svc.ListResourceTemplates(ctx, state)

	case protocol.MethodReadResource:
		var p protocol.ReadResourceParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.ReadResource(ctx, state, p)

	case protocol.MethodSubscribe:
		var p protocol.SubscribeParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.Subscribe(ctx, state, p)

	case protocol.MethodUnsubscribe:
		var p protocol.UnsubscribeParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.Unsubscribe(ctx, state, p)

	case protocol.MethodListPrompts:
		return svc.ListPrompts(ctx, state)

	case protocol.MethodGetPrompt:
		var p protocol.GetPromptParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.GetPrompt(ctx, state, p)

	case protocol.MethodListTools:
		return svc.ListTools(ctx, state)

	case protocol.MethodCallTool:
		var p protocol.CallToolParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.CallTool(ctx, state, p)

	case protocol.MethodSetLevel:
		var p protocol.SetLevelParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.SetLevel(ctx, state, p)

	case protocol.MethodComplete:
		var p protocol.CompleteParams
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		return svc.Complete(ctx, state, p)

	default:
		return nil, protocol.NewError(protocol.ErrMethodNotFound, "Method '%s' not found", method)
	}
}

func unmarshalParams(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return protocol.NewError(protocol.ErrBadInput, "Failed to parse params: %v", err)
	}
	return nil
}
