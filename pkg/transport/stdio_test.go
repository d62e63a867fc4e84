package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/prompts"
	"github.com/richard-senior/mcp-core/pkg/protocol"
	"github.com/richard-senior/mcp-core/pkg/resources"
	"github.com/richard-senior/mcp-core/pkg/service"
	"github.com/richard-senior/mcp-core/pkg/tools"
)

type sleepInput struct{}

func newTestBasicService(t *testing.T) *service.BasicService {
	t.Helper()
	toolReg := tools.NewRegistry()

	echo, err := tools.EchoTool()
	require.NoError(t, err)
	toolReg.Register(echo)

	sleeper, err := tools.NewTool[sleepInput]("sleep").
		Handler(func(ctx context.Context, _ handler.State, _ sleepInput) ([]protocol.Content, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		Build()
	require.NoError(t, err)
	toolReg.Register(sleeper)

	return service.New("test", "0.0.1", "", toolReg, prompts.NewRegistry(), resources.NewRegistry())
}

func runStdio(t *testing.T, svc *service.BasicService, lines []string) []json.RawMessage {
	t.Helper()

	pr, pw := io.Pipe()
	var out bytes.Buffer
	var outMu lockedBuffer
	outMu.buf = &out

	st := NewStdio(svc, handler.NoState{}, pr, &outMu)

	done := make(chan struct{})
	go func() {
		_ = st.Serve(context.Background())
		close(done)
	}()

	for _, line := range lines {
		_, err := pw.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, pw.Close())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stdio transport did not shut down after EOF")
	}

	var results []json.RawMessage
	for _, l := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if l == "" {
			continue
		}
		results = append(results, json.RawMessage(l))
	}
	return results
}

// lockedBuffer adapts bytes.Buffer for concurrent writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func TestStdioInitialize(t *testing.T) {
	svc := newTestBasicService(t)
	lines := runStdio(t, svc, []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`,
	})
	require.Len(t, lines, 1)

	var resp protocol.JsonRpcResponse
	require.NoError(t, json.Unmarshal(lines[0], &resp))
	assert.Nil(t, resp.Error)
	assert.True(t, resp.ID.Equal(protocol.NewIntID(1)))
}

func TestStdioVersionMismatch(t *testing.T) {
	svc := newTestBasicService(t)
	lines := runStdio(t, svc, []string{
		`{"jsonrpc":"1.0","id":1,"method":"ping"}`,
	})
	require.Len(t, lines, 1)

	var resp protocol.JsonRpcResponse
	require.NoError(t, json.Unmarshal(lines[0], &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrBadInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "1.0")
}

func TestStdioCancellationSuppressesResponse(t *testing.T) {
	svc := newTestBasicService(t)
	lines := runStdio(t, svc, []string{
		`{"jsonrpc":"2.0","id":42,"method":"callTool","params":{"name":"sleep","arguments":{}}}`,
		`{"jsonrpc":"2.0","method":"cancelled","params":{"requestId":42,"reason":"user"}}`,
	})
	for _, l := range lines {
		var resp protocol.JsonRpcResponse
		if err := json.Unmarshal(l, &resp); err == nil && resp.ID.Equal(protocol.NewIntID(42)) {
			t.Fatalf("expected no response for cancelled request 42, got %s", l)
		}
	}
}

func TestStdioEchoRoundTrip(t *testing.T) {
	svc := newTestBasicService(t)
	lines := runStdio(t, svc, []string{
		`{"jsonrpc":"2.0","id":2,"method":"callTool","params":{"name":"echo","arguments":{"message":"hi"}}}`,
	})
	require.Len(t, lines, 1)

	var resp protocol.JsonRpcResponse
	require.NoError(t, json.Unmarshal(lines[0], &resp))
	require.Nil(t, resp.Error)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "Echo: hi", result.Content[0].Text)
}
