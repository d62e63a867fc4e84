package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp-core/pkg/protocol"
)

type greetInput struct {
	Name string `json:"name"`
}

type greetOutput struct {
	Greeting string `json:"greeting"`
}

func TestAdapterRunDeserializesAndInvokes(t *testing.T) {
	h := New(func(_ context.Context, _ State, in greetInput) (greetOutput, error) {
		return greetOutput{Greeting: "hi " + in.Name}, nil
	})

	out, err := h.Run(context.Background(), NoState{}, json.RawMessage(`{"name":"ada"}`))
	require.NoError(t, err)
	assert.Equal(t, greetOutput{Greeting: "hi ada"}, out)
}

func TestAdapterRunWrapsBadInput(t *testing.T) {
	h := New(func(_ context.Context, _ State, in greetInput) (greetOutput, error) {
		return greetOutput{}, nil
	})

	_, err := h.Run(context.Background(), NoState{}, json.RawMessage(`not json`))
	require.Error(t, err)
	perr, ok := err.(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, protocol.ErrBadInput, perr.Code)
}

func TestAdapterSchemaIsCachedAndReflectsInputType(t *testing.T) {
	h := New(func(_ context.Context, _ State, in greetInput) (greetOutput, error) {
		return greetOutput{}, nil
	})
	s1 := h.Schema()
	s2 := h.Schema()
	assert.Same(t, s1, s2)

	require.NotNil(t, s1.Properties)
	_, hasName := s1.Properties.Get("name")
	assert.True(t, hasName, "schema must expose greetInput's name field")
}

func TestNoStateClone(t *testing.T) {
	var s State = NoState{}
	assert.Equal(t, NoState{}, s.Clone())
}
