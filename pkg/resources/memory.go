package resources

import (
	"context"
	"sync"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// MemoryResource holds resource contents in memory and answers
// WaitForChange via a broadcast channel that is closed and replaced on
// every Set, so every blocked waiter wakes exactly once per change
// (spec.md §3 "Entity: Source", "MemoryResource ... change-wait backed by
// a notifier"). It is the in-memory reference Source implementation the
// teacher's resources.ExampleResource stood in for with a fixed payload.
type MemoryResource struct {
	mu       sync.RWMutex
	contents []protocol.ResourceContents
	changeCh chan struct{}
}

// NewMemoryResource creates a MemoryResource holding initial.
func NewMemoryResource(initial ...protocol.ResourceContents) *MemoryResource {
	return &MemoryResource{contents: initial, changeCh: make(chan struct{})}
}

func (m *MemoryResource) Read(_ context.Context, _ handler.State, _ string) ([]protocol.ResourceContents, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]protocol.ResourceContents, len(m.contents))
	copy(out, m.contents)
	return out, nil
}

// WaitForChange blocks until the next Set call, or ctx is done.
func (m *MemoryResource) WaitForChange(ctx context.Context, _ handler.State, _ string) error {
	m.mu.RLock()
	ch := m.changeCh
	m.mu.RUnlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Set replaces the resource's contents and wakes every in-flight
// WaitForChange caller.
func (m *MemoryResource) Set(contents ...protocol.ResourceContents) {
	m.mu.Lock()
	m.contents = contents
	old := m.changeCh
	m.changeCh = make(chan struct{})
	m.mu.Unlock()
	close(old)
}
