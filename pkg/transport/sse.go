package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/richard-senior/mcp-core/internal/logger"
	"github.com/richard-senior/mcp-core/pkg/dispatch"
	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// DefaultBroadcastCapacity and DefaultKeepAlive match SPEC_FULL §10.3's
// example configuration.
const (
	DefaultBroadcastCapacity = 100
	DefaultKeepAlive         = 15 * time.Second
)

type sseEvent struct {
	event string
	data  []byte
}

type sseConn struct {
	id string
	ch chan sseEvent
}

// SSE serves MCP over HTTP: POST /api/message for request/response,
// GET /api/events for a server-push stream, the transport shape grounded
// on the teacher's _digital-io gorilla/mux routing and, for the streaming
// half (event framing, keep-alive ticker, per-connection channel), on the
// ktr0731/go-mcp-adjacent streamable server in other_examples. A POST
// reply is also broadcast to every SSE subscriber (spec.md §12 resolution
// of the source's POST-also-broadcasts ambiguity).
type SSE struct {
	svc   dispatch.Service
	state handler.State

	inFlight *InFlight

	broadcastCapacity int
	keepAlive         time.Duration

	mu    sync.Mutex
	conns map[string]*sseConn
}

func NewSSE(svc dispatch.Service, state handler.State, broadcastCapacity int, keepAlive time.Duration) *SSE {
	if broadcastCapacity <= 0 {
		broadcastCapacity = DefaultBroadcastCapacity
	}
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &SSE{
		svc:               svc,
		state:             state,
		inFlight:          NewInFlight(),
		broadcastCapacity: broadcastCapacity,
		keepAlive:         keepAlive,
		conns:             make(map[string]*sseConn),
	}
}

// Router builds the mux.Router serving this transport's two endpoints,
// permissively CORS-enabled so a browser-hosted client can reach them.
func (s *SSE) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/message", s.handleMessage).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/events", s.handleEvents).Methods(http.MethodGet, http.MethodOptions)
	r.Use(corsMiddleware)
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NotifySink broadcasts n to every connected SSE client.
func (s *SSE) NotifySink(n *protocol.Notification) {
	s.broadcast("message", n)
}

func (s *SSE) broadcast(eventType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("sse: marshaling broadcast payload: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		s.deliver(c, sseEvent{event: eventType, data: data})
	}
}

// deliver enqueues ev on c's channel, dropping the oldest queued event
// and warning if the bounded channel is full (SPEC_FULL §10.3
// "bounded broadcast channel ... drop-oldest-on-full").
func (s *SSE) deliver(c *sseConn, ev sseEvent) {
	select {
	case c.ch <- ev:
		return
	default:
	}
	select {
	case <-c.ch:
		logger.Warn("sse: connection %s backlog full, dropping oldest queued event", c.id)
	default:
	}
	select {
	case c.ch <- ev:
	default:
		logger.Warn("sse: connection %s still full after drop, discarding event", c.id)
	}
}

func (s *SSE) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	conn := &sseConn{id: uuid.NewString(), ch: make(chan sseEvent, s.broadcastCapacity)}
	s.mu.Lock()
	s.conns[conn.id] = conn
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn.id)
		s.mu.Unlock()
	}()

	fmt.Fprintf(w, "event: endpoint\ndata: /api/message\n\n")
	flusher.Flush()

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-conn.ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.event, ev.data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func (s *SSE) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("sse: reading request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req, notif, err := protocol.ParseClientMessage(body)
	if err != nil {
		logger.Warn("sse: malformed request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if notif != nil {
		s.CancelFromNotification(r.Context(), notif)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	ctx, ok := s.inFlight.Insert(r.Context(), req.ID)
	if !ok {
		s.writeJSON(w, protocol.NewErrorResponse(req.ID, protocol.NewError(protocol.ErrInvalidRequest, "duplicate request id")))
		return
	}
	defer s.inFlight.Remove(req.ID)

	resp := dispatch.Dispatch(ctx, s.svc, s.state.Clone(), req)
	if ctx.Err() != nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	s.writeJSON(w, resp)
	s.broadcast("message", resp)
}

func (s *SSE) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("sse: encoding response: %v", err)
	}
}

// CancelFromNotification lets a client cancel an in-flight POST-issued
// request out of band (e.g. over its own POST to /api/message carrying a
// `cancelled` notification, handled the same as stdio's).
func (s *SSE) CancelFromNotification(ctx context.Context, notif *protocol.Notification) {
	if notif.Method != protocol.NotificationCancelled {
		return
	}
	var params protocol.CancelledParams
	if err := json.Unmarshal(notif.Params, &params); err != nil {
		logger.Warn("sse: malformed cancelled notification: %v", err)
		return
	}
	if !s.inFlight.Cancel(params.RequestID) {
		logger.Warn("sse: cancelled notification for unknown request id %s", params.RequestID.String())
	}
}
