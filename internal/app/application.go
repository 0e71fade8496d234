// Package app wires the pieces together and owns process lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/litware/littui/internal/config"
	"github.com/litware/littui/internal/core"
	"github.com/litware/littui/internal/dispatcher"
	"github.com/litware/littui/internal/eventbus"
	"github.com/litware/littui/internal/mcp"
	"github.com/litware/littui/internal/ollama"
	"github.com/litware/littui/internal/storage"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     *log.Logger
	logFile    *os.File
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	mcpService *mcp.Service
	model      *AppModel
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// The TUI owns stdout, so logs always go to a file
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := log.New(logFile)
	logger.SetLevel(log.InfoLevel)
	logger.SetReportTimestamp(true)

	client := ollama.NewClient(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.BaseURL,
		Timeout:      cfg.OllamaTimeout(),
		DefaultModel: cfg.Ollama.DefaultModel,
	})

	store, err := storage.NewSessionStore(cfg.SessionsDir())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	model := resolveModel(client, store, logger)

	sess, err := store.Create(model)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)
	mcpService := mcp.NewService(cfg.MCP, logger)
	state := core.NewChatState(sess, model)
	service := core.NewChatService(client, mcpService, store, state, eb, logger, cfg.SystemContext)

	return &Application{
		config:     cfg,
		logger:     logger,
		logFile:    logFile,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		mcpService: mcpService,
		model:      NewAppModel(disp, sess.ID),
	}, nil
}

func (app *Application) Start() error {
	if app.mcpService.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		app.mcpService.Start(ctx)
		cancel()
	}

	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.mcpService.Close()
	app.eventBus.Close()
	app.logFile.Close()
}

// resolveModel picks the model for a new run: last used if recorded, else
// the server's default. An empty result is tolerated; the core surfaces
// guidance on the first turn.
func resolveModel(client *ollama.Client, store *storage.SessionStore, logger *log.Logger) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.CheckRunning(ctx); err != nil {
		logger.Warn("ollama is not reachable", "err", err)
		return ""
	}

	if name, err := store.LoadLastModel(); err == nil && name != "" {
		return name
	}

	name, err := client.GetDefaultModel(ctx)
	if err != nil {
		logger.Warn("no default model available", "err", err)
		return ""
	}
	return name
}
