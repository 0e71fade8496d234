package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)

	if c.config.BaseURL != "http://127.0.0.1:11434" {
		t.Errorf("BaseURL = %q, want default", c.config.BaseURL)
	}
	if c.config.Timeout == 0 {
		t.Error("Timeout should have a default")
	}
}

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	require.NoError(t, c.CheckRunning(context.Background()))
}

func TestCheckRunning_NotRunning(t *testing.T) {
	c := NewClient(&ClientConfig{BaseURL: "http://127.0.0.1:1"})
	err := c.CheckRunning(context.Background())
	require.Error(t, err)
	require.True(t, IsNotRunning(err))
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3.2:3b"},{"name":"qwen2.5:7b"}]}`))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, "llama3.2:3b", models[0].Name)
}

func TestGetDefaultModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama3.2:3b"},{"name":"qwen2.5:7b"}]}`))
	}))
	defer srv.Close()

	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"no preference takes first", "", "llama3.2:3b"},
		{"configured and installed", "qwen2.5:7b", "qwen2.5:7b"},
		{"configured but missing falls back", "mistral:7b", "llama3.2:3b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&ClientConfig{BaseURL: srv.URL, DefaultModel: tt.configured})
			got, err := c.GetDefaultModel(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGetDefaultModel_NoModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	_, err := c.GetDefaultModel(context.Background())
	require.ErrorIs(t, err, ErrNoModels)
}

func TestChatStream(t *testing.T) {
	lines := []string{
		`{"model":"llama3.2:3b","message":{"role":"assistant","content":"Hel"},"done":false}`,
		`{"model":"llama3.2:3b","message":{"role":"assistant","content":"lo"},"done":false}`,
		`{"model":"llama3.2:3b","message":{"role":"assistant","content":" world"},"done":false}`,
		`{"model":"llama3.2:3b","message":{"role":"assistant","content":""},"done":true}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		for _, l := range lines {
			w.Write([]byte(l + "\n"))
		}
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})

	var got []string
	var done bool
	err := c.ChatStream(context.Background(), "llama3.2:3b", []Message{NewUserMessage("hi")}, func(chunk StreamChunk) {
		if chunk.Content != "" {
			got = append(got, chunk.Content)
		}
		if chunk.Done {
			done = true
		}
	})
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, []string{"Hel", "lo", " world"}, got)
	require.Equal(t, "Hello world", strings.Join(got, ""))
}

func TestChatStream_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	err := c.ChatStream(context.Background(), "nope", nil, func(StreamChunk) {})
	require.True(t, IsModelNotFound(err))
}

func TestChatStream_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	err := c.ChatStream(context.Background(), "llama3.2:3b", nil, func(StreamChunk) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of memory")
}

func TestChatStream_SkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json\n"))
		w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	var content string
	err := c.ChatStream(context.Background(), "m", nil, func(chunk StreamChunk) {
		content += chunk.Content
	})
	require.NoError(t, err)
	require.Equal(t, "ok", content)
}

func TestChatStreamChan_DeliversErrorChunk(t *testing.T) {
	c := NewClient(&ClientConfig{BaseURL: "http://127.0.0.1:1"})

	var last StreamChunk
	for chunk := range c.ChatStreamChan(context.Background(), "m", nil) {
		last = chunk
	}
	require.Error(t, last.Error)
	require.True(t, last.Done)
}

func TestClientError_Is(t *testing.T) {
	wrapped := &ClientError{Type: ErrTypeNotRunning, Message: "connection refused"}
	if !errors.Is(wrapped, ErrNotRunning) {
		t.Error("errors.Is should match on error type")
	}
	if errors.Is(wrapped, ErrTimeout) {
		t.Error("errors.Is should not match a different type")
	}
}
