// Package mcp connects to Model Context Protocol servers over stdio and
// exposes their tools to the chat core. Servers are external processes
// declared in the config; this package owns their lifecycle.
package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	mcpclient "github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/litware/littui/internal/config"
)

// ToolDescriptor is the name/description pair a server advertises. Tool
// names are namespaced as "server__tool" so identically named tools on
// different servers stay distinct.
type ToolDescriptor struct {
	Name        string
	Description string
}

// ServerHealth reports one server's process state.
type ServerHealth struct {
	Running bool
}

// Health summarizes the MCP layer for the UI.
type Health struct {
	Enabled    bool
	Servers    map[string]ServerHealth
	TotalTools int
}

// toolClient is the slice of the MCP client surface this package uses.
// *client.StdioMCPClient satisfies it.
type toolClient interface {
	Initialize(ctx context.Context, request mcpproto.InitializeRequest) (*mcpproto.InitializeResult, error)
	ListTools(ctx context.Context, request mcpproto.ListToolsRequest) (*mcpproto.ListToolsResult, error)
	CallTool(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)
	Close() error
}

type server struct {
	client  toolClient
	running bool
	tools   []ToolDescriptor
}

// Service manages the configured MCP servers and aggregates their tools.
type Service struct {
	mu      sync.RWMutex
	cfg     config.MCPConfig
	logger  *log.Logger
	servers map[string]*server

	// spawn is swapped out in tests
	spawn func(config.MCPServerConfig) (toolClient, error)
}

func NewService(cfg config.MCPConfig, logger *log.Logger) *Service {
	return &Service{
		cfg:     cfg,
		logger:  logger,
		servers: make(map[string]*server),
		spawn: func(sc config.MCPServerConfig) (toolClient, error) {
			return mcpclient.NewStdioMCPClient(sc.Command, sc.Env, sc.Args...)
		},
	}
}

// Enabled reports whether any servers are configured.
func (s *Service) Enabled() bool {
	return len(s.cfg.Servers) > 0
}

// Start spawns every configured server, initializes the protocol and caches
// the advertised tools. A failing server is logged and skipped; the rest
// keep working.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, sc := range s.cfg.Servers {
		cli, err := s.spawn(sc)
		if err != nil {
			s.logger.Error("failed to start MCP server", "server", name, "err", err)
			s.servers[name] = &server{}
			continue
		}

		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		initReq := mcpproto.InitializeRequest{}
		initReq.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
		initReq.Params.ClientInfo = mcpproto.Implementation{Name: "littui", Version: "0.1.0"}
		_, err = cli.Initialize(initCtx, initReq)
		cancel()
		if err != nil {
			s.logger.Error("failed to initialize MCP server", "server", name, "err", err)
			cli.Close()
			s.servers[name] = &server{}
			continue
		}

		listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		result, err := cli.ListTools(listCtx, mcpproto.ListToolsRequest{})
		cancel()
		if err != nil {
			s.logger.Error("failed to list tools", "server", name, "err", err)
			cli.Close()
			s.servers[name] = &server{}
			continue
		}

		srv := &server{client: cli, running: true}
		for _, tool := range result.Tools {
			srv.tools = append(srv.tools, ToolDescriptor{
				Name:        name + "__" + tool.Name,
				Description: tool.Description,
			})
		}
		s.servers[name] = srv
		s.logger.Info("MCP server connected", "server", name, "tools", len(srv.tools))
	}
}

// AvailableTools returns every advertised tool, sorted by name.
func (s *Service) AvailableTools() []ToolDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tools []ToolDescriptor
	for _, srv := range s.servers {
		tools = append(tools, srv.tools...)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// CallTool invokes a namespaced tool and returns its text content.
func (s *Service) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	serverName, toolName, err := splitToolName(name)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	srv, ok := s.servers[serverName]
	s.mu.RUnlock()
	if !ok || !srv.running {
		return "", fmt.Errorf("no running MCP server %q", serverName)
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args

	result, err := srv.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	var sb strings.Builder
	for _, item := range result.Content {
		if text, ok := item.(mcpproto.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s: %s", name, strings.TrimSpace(sb.String()))
	}
	return strings.TrimSpace(sb.String()), nil
}

// HealthCheck reports the state of every configured server.
func (s *Service) HealthCheck() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := Health{
		Enabled: len(s.cfg.Servers) > 0,
		Servers: make(map[string]ServerHealth),
	}
	for name, srv := range s.servers {
		h.Servers[name] = ServerHealth{Running: srv.running}
		h.TotalTools += len(srv.tools)
	}
	return h
}

// Close shuts down every server process.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, srv := range s.servers {
		if srv.client == nil {
			continue
		}
		if err := srv.client.Close(); err != nil {
			s.logger.Error("failed to close MCP server", "server", name, "err", err)
		}
		srv.running = false
	}
}

func splitToolName(name string) (serverName, toolName string, err error) {
	parts := strings.SplitN(name, "__", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid tool name %q, want server__tool", name)
	}
	return parts[0], parts[1], nil
}
