package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	t.Setenv("LITTUI_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.BaseURL)
	require.Empty(t, cfg.MCP.Servers)

	// The default file must have been written
	_, err = os.Stat(filepath.Join(cfg.Home(), "config.json"))
	require.NoError(t, err)
}

func TestLoadConfig_ReadsExisting(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LITTUI_HOME", home)

	raw := map[string]any{
		"ollama": map[string]any{
			"base_url":      "http://127.0.0.1:9999",
			"default_model": "llama3.2",
			"timeout_secs":  5,
		},
		"mcp": map[string]any{
			"servers": map[string]any{
				"files": map[string]any{"command": "mcp-files", "args": []string{"--root", "/tmp"}},
			},
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.json"), data, 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9999", cfg.Ollama.BaseURL)
	require.Equal(t, "llama3.2", cfg.Ollama.DefaultModel)
	require.Equal(t, 5*time.Second, cfg.OllamaTimeout())
	require.Contains(t, cfg.MCP.Servers, "files")
	require.Equal(t, "mcp-files", cfg.MCP.Servers["files"].Command)
}

func TestOllamaTimeout_Default(t *testing.T) {
	cfg := &Config{}
	if cfg.OllamaTimeout() != 30*time.Second {
		t.Errorf("OllamaTimeout = %v, want 30s", cfg.OllamaTimeout())
	}
}

func TestPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LITTUI_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home())
	require.Equal(t, filepath.Join(home, "sessions"), cfg.SessionsDir())
	require.Equal(t, filepath.Join(home, "littui.log"), cfg.LogPath())
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("LITTUI_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.Ollama.DefaultModel = "qwen2.5:7b"
	cfg.SystemContext = "Prefer short answers."
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "qwen2.5:7b", reloaded.Ollama.DefaultModel)
	require.Equal(t, "Prefer short answers.", reloaded.SystemContext)
}
