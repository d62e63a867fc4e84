package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

func newTestSSEService(t *testing.T) *service.BasicService {
	t.Helper()
	toolReg := tools.NewRegistry()
	echo, err := tools.EchoTool()
	require.NoError(t, err)
	toolReg.Register(echo)
	return service.New("test", "0.0.1", "", toolReg, prompts.NewRegistry(), resources.NewRegistry())
}

func TestSSEHandleMessageEcho(t *testing.T) {
	svc := newTestSSEService(t)
	tr := NewSSE(svc, handler.NoState{}, 10, 15*time.Second)

	body := `{"jsonrpc":"2.0","id":1,"method":"callTool","params":{"name":"echo","arguments":{"message":"hi"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader(body))
	w := httptest.NewRecorder()

	tr.Router().ServeHTTP(w, req)

	var resp protocol.JsonRpcResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Nil(t, resp.Error)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "Echo: hi", result.Content[0].Text)
}

func TestSSEHandleMessageVersionMismatch(t *testing.T) {
	svc := newTestSSEService(t)
	tr := NewSSE(svc, handler.NoState{}, 10, 15*time.Second)

	body := `{"jsonrpc":"1.0","id":1,"method":"ping"}`
	req := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader(body))
	w := httptest.NewRecorder()

	tr.Router().ServeHTTP(w, req)

	var resp protocol.JsonRpcResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrBadInput, resp.Error.Code)
}

func TestSSEHandleMessageMalformedBody(t *testing.T) {
	svc := newTestSSEService(t)
	tr := NewSSE(svc, handler.NoState{}, 10, 15*time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	tr.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestSSEEventsStreamReceivesBroadcast(t *testing.T) {
	svc := newTestSSEService(t)
	tr := NewSSE(svc, handler.NoState{}, 10, 15*time.Second)

	srv := httptest.NewServer(tr.Router())
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)

	// First frame is the endpoint announcement.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "event: endpoint"))

	n, err := protocol.NewNotification(protocol.NotificationResourceUpdated, protocol.ResourceUpdatedParams{URI: "history://x"})
	require.NoError(t, err)
	tr.NotifySink(n)

	var buf bytes.Buffer
	deadline := time.After(2 * time.Second)
	for {
		l, err := reader.ReadString('\n')
		require.NoError(t, err)
		buf.WriteString(l)
		if strings.Contains(buf.String(), "resourceUpdated") {
			break
		}
		select {
		case <-deadline:
			t.Fatal("did not receive broadcast notification in time")
		default:
		}
	}
}
