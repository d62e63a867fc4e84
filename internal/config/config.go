// Package config loads the ambient server configuration from a YAML file
// (gopkg.in/yaml.v3) overlaid on built-in defaults, in the lenient style
// of the teacher's _digital-io/internal/config/labels.go (a missing file
// is a warning, never a fatal error). Command-line flags are not read
// here; cmd/mcp/main.go applies them on top of the loaded Config.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/richard-senior/mcp-core/internal/logger"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "./mcp.yaml"

// Transport selects which front end cmd/mcp/main.go starts.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportSSE   Transport = "sse"
)

// SSEConfig holds the HTTP transport's tunables (SPEC_FULL §10.3).
type SSEConfig struct {
	Addr              string `yaml:"addr"`
	BroadcastCapacity int    `yaml:"broadcastCapacity"`
	KeepAliveSeconds  int    `yaml:"keepAliveSeconds"`
}

// Config is the whole of this server's ambient configuration.
type Config struct {
	Name         string    `yaml:"name"`
	Version      string    `yaml:"version"`
	Instructions string    `yaml:"instructions"`
	Transport    Transport `yaml:"transport"`
	SSE          SSEConfig `yaml:"sse"`
	SQLitePath   string    `yaml:"sqlitePath"`
	Debug        bool      `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Name:      "mcp-core",
		Version:   "0.1.0",
		Transport: TransportStdio,
		SSE: SSEConfig{
			Addr:              ":8090",
			BroadcastCapacity: 100,
			KeepAliveSeconds:  15,
		},
		SQLitePath: "./mcp.db",
	}
}

// Load reads path (DefaultPath if empty) and overlays it on Default(). A
// missing file is not an error: it is logged and the defaults are
// returned, matching the teacher's posture toward missing config files.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("config file not found at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	logger.Info("loaded configuration from %s", path)
	return cfg, nil
}
