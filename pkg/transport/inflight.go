// Package transport implements the two wire-level front ends described in
// spec.md §4.2 (stdio) and §4.3 (SSE), sharing one in-flight cancellation
// map between them (spec.md §3 "Entity: Subscription" sibling, the
// in-flight map invariant in §6).
package transport

import (
	"context"
	"sync"

	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// InFlight tracks the cancel function for every request currently being
// dispatched, keyed by RequestID (spec.md §4.1 "Allocate a cancel signal;
// insert {id -> signal} into the in-flight map").
type InFlight struct {
	mu  sync.Mutex
	ids map[protocol.RequestID]context.CancelFunc
}

func NewInFlight() *InFlight {
	return &InFlight{ids: make(map[protocol.RequestID]context.CancelFunc)}
}

// Insert derives a cancellable context from parent and registers it under
// id. It reports false (without registering) if id is already in use,
// matching the duplicate-request-id rejection in spec.md §4.1.
func (f *InFlight) Insert(parent context.Context, id protocol.RequestID) (context.Context, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.ids[id]; exists {
		return nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	f.ids[id] = cancel
	return ctx, true
}

// Remove deletes id's entry once its dispatch has completed.
func (f *InFlight) Remove(id protocol.RequestID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ids, id)
}

// Cancel fires id's cancel signal if still in flight. An unknown id is
// logged by the caller and otherwise ignored (spec.md §4.1 "Cancellation
// racing with completion is benign").
func (f *InFlight) Cancel(id protocol.RequestID) (found bool) {
	f.mu.Lock()
	cancel, exists := f.ids[id]
	f.mu.Unlock()
	if !exists {
		return false
	}
	cancel()
	return true
}

// Len reports the number of requests currently in flight; used by tests
// asserting spec.md §6 invariant 3.
func (f *InFlight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}
