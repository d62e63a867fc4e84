package resources

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

func openTestStore(t *testing.T) *SQLiteResource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources.db")
	store, err := OpenSQLiteResource(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteResourceReadMissingIs404(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Read(context.Background(), handler.NoState{}, "doc://missing")
	require.Error(t, err)
	perr, ok := err.(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, protocol.ErrNotFound, perr.Code)
}

func TestSQLiteResourceSetThenRead(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Set(context.Background(), "doc://1", "text/plain", "hello"))

	out, err := store.Read(context.Background(), handler.NoState{}, "doc://1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hello", out[0].Text)
	assert.Equal(t, "text/plain", out[0].MimeType)
}

func TestSQLiteResourceWaitForChangeWakesOnSet(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Set(context.Background(), "doc://1", "text/plain", "v1"))
	store.pollInterval = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		done <- store.WaitForChange(context.Background(), handler.NoState{}, "doc://1")
	}()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, store.Set(context.Background(), "doc://1", "text/plain", "v2"))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForChange did not wake after Set")
	}
}
