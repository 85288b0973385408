// Package config provides configuration management for the bridge.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Config represents the application configuration. CLI flags override
// any value loaded from disk.
type Config struct {
	// Server contains the HTTP/WebSocket listener settings.
	Server ServerConfig `json:"server"`

	// Source selects between the live device reader and the simulator.
	Source SourceConfig `json:"source"`

	// LogLevel is the initial log verbosity (trace/debug/info/warn/error).
	LogLevel string `json:"log_level"`
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	// Port is the combined HTTP and WebSocket listen port.
	Port int `json:"port"`

	// ServeUI enables the embedded dashboard at /.
	ServeUI bool `json:"serve_ui"`
}

// SourceConfig contains event source settings.
type SourceConfig struct {
	// Device is an explicit input device path. Empty means auto-detect.
	Device string `json:"device,omitempty"`

	// Simulate switches to the synthetic event generator.
	Simulate bool `json:"simulate"`
}

// Default returns a new Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			ServeUI: true,
		},
		Source:   SourceConfig{},
		LogLevel: "info",
	}
}

// Manager handles loading and saving configuration.
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
}

// NewManager creates a configuration manager. path may be empty, in
// which case the default location under the user config dir is used.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return &Manager{
		configPath: path,
		config:     Default(),
	}, nil
}

func defaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "kmdash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk. A missing file leaves the
// defaults in place.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, m.config)
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.configPath, data, 0o644)
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set replaces the configuration.
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
}
