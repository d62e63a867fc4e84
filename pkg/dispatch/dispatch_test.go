package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// stubService implements Service with canned, assertable behavior.
type stubService struct {
	pingCalled bool
}

func (s *stubService) Initialize(context.Context, handler.State, protocol.InitializeParams) (*protocol.InitializeResult, error) {
	return &protocol.InitializeResult{ServerInfo: protocol.Implementation{Name: "stub"}}, nil
}
func (s *stubService) Ping(context.Context, handler.State) (*protocol.EmptyResult, error) {
	s.pingCalled = true
	return &protocol.EmptyResult{}, nil
}
func (s *stubService) ListResources(context.Context, handler.State) (*protocol.ListResourcesResult, error) {
	return &protocol.ListResourcesResult{}, nil
}
func (s *stubService) ListResourceTemplates(context.Context, handler.State) (*protocol.ListResourceTemplatesResult, error) {
	return &protocol.ListResourceTemplatesResult{}, nil
}
func (s *stubService) ReadResource(context.Context, handler.State, protocol.ReadResourceParams) (*protocol.ReadResourceResult, error) {
	return &protocol.ReadResourceResult{}, nil
}
func (s *stubService) Subscribe(context.Context, handler.State, protocol.SubscribeParams) (*protocol.EmptyResult, error) {
	return &protocol.EmptyResult{}, nil
}
func (s *stubService) Unsubscribe(context.Context, handler.State, protocol.UnsubscribeParams) (*protocol.EmptyResult, error) {
	return &protocol.EmptyResult{}, nil
}
func (s *stubService) ListPrompts(context.Context, handler.State) (*protocol.ListPromptsResult, error) {
	return &protocol.ListPromptsResult{}, nil
}
func (s *stubService) GetPrompt(context.Context, handler.State, protocol.GetPromptParams) (*protocol.GetPromptResult, error) {
	return &protocol.GetPromptResult{}, nil
}
func (s *stubService) ListTools(context.Context, handler.State) (*protocol.ListToolsResult, error) {
	return &protocol.ListToolsResult{}, nil
}
func (s *stubService) CallTool(context.Context, handler.State, protocol.CallToolParams) (*protocol.CallToolResult, error) {
	return &protocol.CallToolResult{}, nil
}
func (s *stubService) SetLevel(context.Context, handler.State, protocol.SetLevelParams) (*protocol.EmptyResult, error) {
	return nil, protocol.NewError(protocol.ErrNotImplemented, "setLevel is not implemented")
}
func (s *stubService) Complete(context.Context, handler.State, protocol.CompleteParams) (*protocol.CompleteResult, error) {
	return &protocol.CompleteResult{}, nil
}

func TestDispatchRoutesInitialize(t *testing.T) {
	svc := &stubService{}
	req := &protocol.JsonRpcRequest{JsonRPC: "2.0", ID: protocol.NewIntID(1), Method: protocol.MethodInitialize}
	resp := Dispatch(context.Background(), svc, handler.NoState{}, req)
	require.Nil(t, resp.Error)

	var result protocol.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "stub", result.ServerInfo.Name)
}

func TestDispatchRejectsWrongVersion(t *testing.T) {
	svc := &stubService{}
	req := &protocol.JsonRpcRequest{JsonRPC: "1.0", ID: protocol.NewIntID(1), Method: protocol.MethodPing}
	resp := Dispatch(context.Background(), svc, handler.NoState{}, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrBadInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "1.0")
	assert.False(t, svc.pingCalled, "service method must not run on a version mismatch")
}

func TestDispatchUnknownMethod(t *testing.T) {
	svc := &stubService{}
	req := &protocol.JsonRpcRequest{JsonRPC: "2.0", ID: protocol.NewIntID(1), Method: "bogus"}
	resp := Dispatch(context.Background(), svc, handler.NoState{}, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrMethodNotFound, resp.Error.Code)
}

func TestDispatchSetLevelReturns501(t *testing.T) {
	svc := &stubService{}
	req := &protocol.JsonRpcRequest{JsonRPC: "2.0", ID: protocol.NewIntID(1), Method: protocol.MethodSetLevel}
	resp := Dispatch(context.Background(), svc, handler.NoState{}, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrNotImplemented, resp.Error.Code)
}

func TestDispatchPreservesRequestID(t *testing.T) {
	svc := &stubService{}
	req := &protocol.JsonRpcRequest{JsonRPC: "2.0", ID: protocol.NewStringID("abc"), Method: protocol.MethodPing}
	resp := Dispatch(context.Background(), svc, handler.NoState{}, req)
	assert.True(t, resp.ID.Equal(protocol.NewStringID("abc")))
	assert.True(t, svc.pingCalled)
}

func TestDispatchBadParamsIs400(t *testing.T) {
	svc := &stubService{}
	req := &protocol.JsonRpcRequest{
		JsonRPC: "2.0",
		ID:      protocol.NewIntID(1),
		Method:  protocol.MethodReadResource,
		Params:  json.RawMessage(`not json`),
	}
	resp := Dispatch(context.Background(), svc, handler.NoState{}, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrBadInput, resp.Error.Code)
}
