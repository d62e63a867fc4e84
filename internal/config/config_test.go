package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysYAMLOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	yaml := `
name: custom-server
transport: sse
sse:
  addr: ":9000"
  broadcastCapacity: 50
  keepAliveSeconds: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-server", cfg.Name)
	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, ":9000", cfg.SSE.Addr)
	assert.Equal(t, 50, cfg.SSE.BroadcastCapacity)
	assert.Equal(t, "0.1.0", cfg.Version, "fields absent from the file keep their default")
}
