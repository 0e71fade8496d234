package mcp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/litware/littui/internal/config"
)

type fakeClient struct {
	tools    []mcpproto.Tool
	initErr  error
	callErr  error
	result   *mcpproto.CallToolResult
	lastCall mcpproto.CallToolRequest
	closed   bool
}

func (f *fakeClient) Initialize(ctx context.Context, req mcpproto.InitializeRequest) (*mcpproto.InitializeResult, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &mcpproto.InitializeResult{}, nil
}

func (f *fakeClient) ListTools(ctx context.Context, req mcpproto.ListToolsRequest) (*mcpproto.ListToolsResult, error) {
	return &mcpproto.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeClient) CallTool(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	f.lastCall = req
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.result, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestService(name string, fake *fakeClient) *Service {
	cfg := config.MCPConfig{Servers: map[string]config.MCPServerConfig{
		name: {Command: "true"},
	}}

	svc := NewService(cfg, testLogger())
	svc.spawn = func(sc config.MCPServerConfig) (toolClient, error) {
		return fake, nil
	}
	return svc
}

func TestSplitToolName(t *testing.T) {
	tests := []struct {
		input      string
		wantServer string
		wantTool   string
		wantErr    bool
	}{
		{"files__read_file", "files", "read_file", false},
		{"files__read__file", "files", "read__file", false},
		{"noseparator", "", "", true},
		{"__tool", "", "", true},
		{"server__", "", "", true},
	}

	for _, tt := range tests {
		srv, tool, err := splitToolName(tt.input)
		if tt.wantErr {
			require.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.wantServer, srv)
		require.Equal(t, tt.wantTool, tool)
	}
}

func TestStart_CachesNamespacedTools(t *testing.T) {
	fake := &fakeClient{tools: []mcpproto.Tool{
		{Name: "read_file", Description: "Read a file from disk"},
		{Name: "list_dir", Description: "List a directory"},
	}}
	svc := newTestService("files", fake)

	svc.Start(context.Background())

	tools := svc.AvailableTools()
	require.Len(t, tools, 2)
	require.Equal(t, "files__list_dir", tools[0].Name)
	require.Equal(t, "files__read_file", tools[1].Name)
	require.Equal(t, "Read a file from disk", tools[1].Description)
}

func TestStart_FailedServerIsSkipped(t *testing.T) {
	fake := &fakeClient{initErr: errors.New("handshake failed")}
	svc := newTestService("broken", fake)

	svc.Start(context.Background())

	require.Empty(t, svc.AvailableTools())
	require.True(t, fake.closed)

	h := svc.HealthCheck()
	require.True(t, h.Enabled)
	require.False(t, h.Servers["broken"].Running)
	require.Zero(t, h.TotalTools)
}

func TestCallTool_RoutesByPrefix(t *testing.T) {
	fake := &fakeClient{
		tools: []mcpproto.Tool{{Name: "read_file"}},
		result: &mcpproto.CallToolResult{
			Content: []any{mcpproto.TextContent{Type: "text", Text: "file contents"}},
		},
	}
	svc := newTestService("files", fake)
	svc.Start(context.Background())

	out, err := svc.CallTool(context.Background(), "files__read_file", map[string]any{"path": "/tmp/x"})
	require.NoError(t, err)
	require.Equal(t, "file contents", out)
	require.Equal(t, "read_file", fake.lastCall.Params.Name)
	require.Equal(t, "/tmp/x", fake.lastCall.Params.Arguments["path"])
}

func TestCallTool_UnknownServer(t *testing.T) {
	svc := NewService(config.MCPConfig{}, testLogger())
	_, err := svc.CallTool(context.Background(), "ghost__tool", nil)
	require.Error(t, err)
}

func TestCallTool_ToolError(t *testing.T) {
	fake := &fakeClient{
		tools: []mcpproto.Tool{{Name: "read_file"}},
		result: &mcpproto.CallToolResult{
			IsError: true,
			Content: []any{mcpproto.TextContent{Type: "text", Text: "permission denied"}},
		},
	}
	svc := newTestService("files", fake)
	svc.Start(context.Background())

	_, err := svc.CallTool(context.Background(), "files__read_file", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "permission denied")
}

func TestHealthCheck_Disabled(t *testing.T) {
	svc := NewService(config.MCPConfig{}, testLogger())
	h := svc.HealthCheck()
	require.False(t, h.Enabled)
	require.Zero(t, h.TotalTools)
	require.Empty(t, h.Servers)
	require.False(t, svc.Enabled())
}

func TestClose(t *testing.T) {
	fake := &fakeClient{tools: []mcpproto.Tool{{Name: "t"}}}
	svc := newTestService("files", fake)
	svc.Start(context.Background())

	svc.Close()
	require.True(t, fake.closed)
	require.False(t, svc.HealthCheck().Servers["files"].Running)
}
