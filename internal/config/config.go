package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OllamaConfig points the client at a local Ollama server.
type OllamaConfig struct {
	BaseURL      string `json:"base_url"`
	DefaultModel string `json:"default_model,omitempty"`
	TimeoutSecs  int    `json:"timeout_secs,omitempty"`
}

// MCPServerConfig describes one MCP server process to spawn over stdio.
type MCPServerConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	Env     []string `json:"env,omitempty"`
}

// MCPConfig holds the tool server set. An empty map disables MCP entirely.
type MCPConfig struct {
	Servers map[string]MCPServerConfig `json:"servers,omitempty"`
}

type Config struct {
	Ollama OllamaConfig `json:"ollama"`
	MCP    MCPConfig    `json:"mcp"`

	// SystemContext is free-form text appended to the composed system prompt.
	SystemContext string `json:"system_context,omitempty"`

	home string
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.home = filepath.Dir(configPath)
	return config, nil
}

// OllamaTimeout returns the request timeout for non-streaming Ollama calls.
func (c *Config) OllamaTimeout() time.Duration {
	if c.Ollama.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Ollama.TimeoutSecs) * time.Second
}

// Home returns the littui data directory (sessions, logs live under it).
func (c *Config) Home() string {
	return c.home
}

// SessionsDir returns the directory used for persisted sessions.
func (c *Config) SessionsDir() string {
	return filepath.Join(c.home, "sessions")
}

// LogPath returns the log file location. The TUI owns stdout, so logs
// always go to a file.
func (c *Config) LogPath() string {
	return filepath.Join(c.home, "littui.log")
}

func getConfigPath() (string, error) {
	var configDir string

	// Use LITTUI_HOME if set, otherwise use user's home directory
	if litHome := os.Getenv("LITTUI_HOME"); litHome != "" {
		return filepath.Join(litHome, "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir = homeDir

	return filepath.Join(configDir, ".littui", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Ollama: OllamaConfig{
			BaseURL:     "http://127.0.0.1:11434",
			TimeoutSecs: 30,
		},
		MCP: MCPConfig{},
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}
