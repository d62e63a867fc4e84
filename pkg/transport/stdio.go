package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/richard-senior/mcp-core/internal/logger"
	"github.com/richard-senior/mcp-core/pkg/dispatch"
	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// maxLineSize bounds a single NDJSON frame; generous enough for any
// realistic tool/prompt/resource payload this core ships.
const maxLineSize = 8 * 1024 * 1024

// Stdio serves MCP over newline-delimited JSON on stdin/stdout (spec.md
// §4.2). EOF on stdin is a clean shutdown: in-flight requests are allowed
// to finish before Serve returns. Stdout is reserved for protocol frames;
// callers must have pointed the logger at stderr (SetLogOutput('e'))
// before calling Serve.
type Stdio struct {
	svc   dispatch.Service
	state handler.State

	in  io.Reader
	out io.Writer

	inFlight *InFlight
	writeMu  sync.Mutex
	wg       sync.WaitGroup
}

func NewStdio(svc dispatch.Service, state handler.State, in io.Reader, out io.Writer) *Stdio {
	return &Stdio{svc: svc, state: state, in: in, out: out, inFlight: NewInFlight()}
}

// NotifySink emits a server notification as its own NDJSON line.
func (s *Stdio) NotifySink(n *protocol.Notification) {
	s.writeLine(n)
}

// Serve reads one message per line until EOF, dispatching requests
// concurrently and handling `cancelled` notifications inline.
func (s *Stdio) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg := make([]byte, len(line))
		copy(msg, line)
		s.handleLine(ctx, msg)
	}

	s.wg.Wait()
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Stdio) handleLine(ctx context.Context, line []byte) {
	req, notif, err := protocol.ParseClientMessage(line)
	if err != nil {
		s.writeLine(protocol.NewErrorResponse(protocol.RequestID{}, protocol.NewError(protocol.ErrParse, "%v", err)))
		return
	}

	if notif != nil {
		s.handleNotification(notif)
		return
	}

	// Insert synchronously, on the scanner goroutine, so a `cancelled`
	// notification read on the very next line can never race ahead of
	// this request's own in-flight registration.
	reqCtx, ok := s.inFlight.Insert(ctx, req.ID)
	if !ok {
		s.writeLine(protocol.NewErrorResponse(req.ID, protocol.NewError(protocol.ErrInvalidRequest, "duplicate request id")))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.handleRequest(reqCtx, req)
	}()
}

func (s *Stdio) handleNotification(notif *protocol.Notification) {
	if notif.Method != protocol.NotificationCancelled {
		return
	}
	var params protocol.CancelledParams
	if err := json.Unmarshal(notif.Params, &params); err != nil {
		logger.Warn("stdio: malformed cancelled notification: %v", err)
		return
	}
	if !s.inFlight.Cancel(params.RequestID) {
		logger.Warn("stdio: cancelled notification for unknown request id %s", params.RequestID.String())
	}
}

// handleRequest runs req's dispatch to completion. reqCtx was already
// registered in the in-flight map by the caller before this goroutine was
// spawned.
func (s *Stdio) handleRequest(reqCtx context.Context, req *protocol.JsonRpcRequest) {
	defer s.inFlight.Remove(req.ID)

	resp := dispatch.Dispatch(reqCtx, s.svc, s.state.Clone(), req)
	if reqCtx.Err() != nil {
		// Cancelled: per MCP convention no response is sent.
		return
	}
	s.writeLine(resp)
}

func (s *Stdio) writeLine(v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Error("stdio: marshaling outgoing message: %v", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.out.Write(raw)
	s.out.Write([]byte("\n"))
	if f, ok := s.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
}
