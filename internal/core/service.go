package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/litware/littui/internal/eventbus"
	"github.com/litware/littui/internal/mcp"
	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/internal/ollama"
	"github.com/litware/littui/internal/prompt"
	"github.com/litware/littui/internal/storage"
)

const welcomeText = "Hello! I'm your AI assistant. How can I help you today?"

const noModelGuidance = "No Ollama model available. Please:\n" +
	"1. Make sure Ollama is running\n" +
	"2. Pull a model (e.g., `ollama pull llama3.2`)\n" +
	"3. Restart littui"

const sessionListLimit = 20

// Generator is the slice of the Ollama client the orchestrator needs.
type Generator interface {
	ChatStream(ctx context.Context, model string, messages []ollama.Message, callback ollama.StreamCallback) error
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// ToolProvider is the slice of the MCP service the orchestrator needs.
type ToolProvider interface {
	AvailableTools() []mcp.ToolDescriptor
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	HealthCheck() mcp.Health
}

// SessionStore is the slice of the storage layer the orchestrator needs.
type SessionStore interface {
	Create(model string) (*storage.Session, error)
	Save(sess *storage.Session) error
	Load(id string) (*storage.Session, error)
	List(limit int) ([]storage.SessionMeta, error)
	SaveLastModel(name string) error
}

// ChatService owns the turn loop. It consumes UI events from the bus,
// mutates the transcript, drives generation and pushes display events back.
type ChatService struct {
	generator Generator
	tools     ToolProvider
	store     SessionStore
	state     *ChatState
	bus       *eventbus.EventBus
	logger    *log.Logger

	// systemContext is free-form text folded into the composed directive.
	systemContext string

	ctx    context.Context
	cancel context.CancelFunc
}

func NewChatService(
	generator Generator,
	tools ToolProvider,
	store SessionStore,
	state *ChatState,
	bus *eventbus.EventBus,
	logger *log.Logger,
	systemContext string,
) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		generator:     generator,
		tools:         tools,
		store:         store,
		state:         state,
		bus:           bus,
		logger:        logger,
		systemContext: systemContext,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start pushes the initial view and runs the event loop in a goroutine.
func (cs *ChatService) Start() {
	if len(cs.state.Messages()) == 0 {
		cs.seedWelcome()
	}
	cs.pushModel()
	go cs.eventLoop()
}

func (cs *ChatService) Stop() {
	cs.cancel()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.bus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		cs.submit(e.Message)
	case eventbus.NewChatEvent:
		cs.newChat()
	case eventbus.LoadSessionEvent:
		cs.loadSession(e.ID)
	case eventbus.ListSessionsEvent:
		cs.listSessions()
	case eventbus.SwitchModelEvent:
		cs.switchModel(e.Name)
	case eventbus.ShowToolsEvent:
		cs.showTools()
	case eventbus.CallToolEvent:
		cs.callTool(e.Name, e.Args)
	}
}

// submit starts a turn. A second submission while one is in flight is
// silently dropped, not queued.
func (cs *ChatService) submit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if !cs.state.BeginTurn() {
		cs.logger.Debug("submission dropped, turn in flight")
		return
	}

	cs.state.Append(storage.NewMessage("user", text, cs.state.Model()))
	cs.persist()
	cs.pushMessage(models.Message{Content: text, Type: models.User, Timestamp: time.Now()})
	cs.sendToUI(eventbus.GeneratingEvent{Generating: true})

	go cs.finishTurn(text)
}

func (cs *ChatService) finishTurn(text string) {
	defer func() {
		cs.state.EndTurn()
		cs.sendToUI(eventbus.GeneratingEvent{Generating: false})
	}()
	cs.generate(text)
}

// generate runs one turn against the model. The caller holds the turn slot.
func (cs *ChatService) generate(userText string) {
	model := cs.state.Model()
	if model == "" {
		cs.appendAssistant(noModelGuidance, "")
		return
	}

	if !cs.state.HasSystemMessage() {
		res := prompt.Compose(prompt.Request{
			UserText:   userText,
			Transcript: cs.transcriptContents(),
			Tools:      cs.tools.AvailableTools(),
			Context:    cs.systemContext,
		})
		cs.state.InsertSystem(res.Prompt)
		cs.persist()
		cs.logger.Debug("system directive inserted", "fallback", res.Fallback, "modules", res.Modules)
	}

	if tools := cs.tools.AvailableTools(); len(tools) > 0 && !SupportsTools(model) {
		cs.appendAssistant(cs.compatibilityError(model), "")
		return
	}

	cs.sendToUI(eventbus.StreamOpenedEvent{Model: model})

	var acc strings.Builder
	err := cs.generator.ChatStream(cs.ctx, model, cs.state.PromptMessages(), func(chunk ollama.StreamChunk) {
		if chunk.Content != "" {
			acc.WriteString(chunk.Content)
			cs.sendToUI(eventbus.StreamDeltaEvent{Content: chunk.Content})
		}
	})
	if err != nil {
		cs.logger.Error("generation failed", "model", model, "err", err)
		cs.sendToUI(eventbus.StreamClosedEvent{Content: cs.generationError(err)})
		cs.state.Append(storage.NewMessage("assistant", cs.generationError(err), model))
		cs.persist()
		return
	}

	content := acc.String()
	cs.state.Append(storage.NewMessage("assistant", content, model))
	cs.persist()
	cs.sendToUI(eventbus.StreamClosedEvent{Content: content})
}

func (cs *ChatService) compatibilityError(model string) string {
	msg := fmt.Sprintf("The model %q does not support tool calling.", model)
	if names := cs.availableModelNames(); len(names) > 0 {
		if suggestion, ok := SuggestToolCapable(names); ok {
			msg += fmt.Sprintf(" Try switching to %q with /model %s.", suggestion, suggestion)
		}
	}
	return msg
}

func (cs *ChatService) generationError(err error) string {
	switch {
	case ollama.IsNotRunning(err):
		return "Cannot reach Ollama. Make sure the server is running (`ollama serve`)."
	case ollama.IsModelNotFound(err):
		return fmt.Sprintf("Model not found: %v. Pull it first with `ollama pull`.", err)
	default:
		return fmt.Sprintf("Error generating response: %v", err)
	}
}

// transcriptContents flattens the transcript for the composer, which only
// needs the text to decide whether the conversation is already under way.
func (cs *ChatService) transcriptContents() []string {
	msgs := cs.state.Messages()
	contents := make([]string, 0, len(msgs))
	for _, m := range msgs {
		contents = append(contents, m.Content)
	}
	return contents
}

func (cs *ChatService) availableModelNames() []string {
	ctx, cancel := context.WithTimeout(cs.ctx, 5*time.Second)
	defer cancel()

	infos, err := cs.generator.ListModels(ctx)
	if err != nil {
		cs.logger.Warn("failed to list models", "err", err)
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}

// newChat discards the current session view and starts a fresh one. The old
// session stays on disk.
func (cs *ChatService) newChat() {
	sess, err := cs.store.Create(cs.state.Model())
	if err != nil {
		cs.notice(fmt.Sprintf("Failed to create session: %v", err))
		return
	}

	cs.state.SetSession(sess)
	cs.sendToUI(eventbus.TranscriptEvent{SessionID: sess.ID})
	cs.seedWelcome()
	cs.notice("Started new chat session")
}

func (cs *ChatService) loadSession(id string) {
	sess, err := cs.store.Load(id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			cs.notice(fmt.Sprintf("Session %s not found", id))
		} else {
			cs.notice(fmt.Sprintf("Failed to load session: %v", err))
		}
		return
	}

	cs.state.SetSession(sess)
	cs.sendToUI(eventbus.TranscriptEvent{SessionID: sess.ID, Messages: displayTranscript(sess)})
	cs.pushModel()
	cs.notice(fmt.Sprintf("Loaded session %q", sess.Title))
}

func (cs *ChatService) listSessions() {
	metas, err := cs.store.List(sessionListLimit)
	if err != nil {
		cs.notice(fmt.Sprintf("Failed to list sessions: %v", err))
		return
	}
	cs.sendToUI(eventbus.SessionListEvent{Sessions: metas})
}

func (cs *ChatService) switchModel(name string) {
	names := cs.availableModelNames()
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		cs.notice(fmt.Sprintf("Model %q is not installed. Available: %s", name, strings.Join(names, ", ")))
		return
	}

	cs.state.SetModel(name)
	cs.persist()
	if err := cs.store.SaveLastModel(name); err != nil {
		cs.logger.Warn("failed to record last model", "err", err)
	}
	cs.pushModel()
	cs.notice(fmt.Sprintf("Switched to %s", name))
}

func (cs *ChatService) showTools() {
	cs.sendToUI(eventbus.ToolsEvent{
		Health: cs.tools.HealthCheck(),
		Tools:  cs.tools.AvailableTools(),
	})
}

func (cs *ChatService) callTool(name string, args map[string]any) {
	ctx, cancel := context.WithTimeout(cs.ctx, 30*time.Second)
	defer cancel()

	out, err := cs.tools.CallTool(ctx, name, args)
	if err != nil {
		cs.notice(fmt.Sprintf("Tool call failed: %v", err))
		return
	}
	cs.pushMessage(models.Message{
		Content:   out,
		Type:      models.Tool,
		ToolName:  name,
		Timestamp: time.Now(),
	})
}

// appendAssistant records a whole assistant message, persists it and shows
// it. Used for diagnostics that bypass streaming.
func (cs *ChatService) appendAssistant(content, model string) {
	cs.state.Append(storage.NewMessage("assistant", content, model))
	cs.persist()
	cs.pushMessage(models.Message{
		Content:   content,
		Type:      models.Assistant,
		Model:     model,
		Timestamp: time.Now(),
	})
}

func (cs *ChatService) persist() {
	snap := cs.state.Snapshot()
	if err := cs.store.Save(&snap); err != nil {
		cs.logger.Error("failed to persist session", "session", snap.ID, "err", err)
		cs.notice(fmt.Sprintf("Failed to save session: %v", err))
	}
}

// seedWelcome persists the greeting into the fresh session, same as any
// other assistant message.
func (cs *ChatService) seedWelcome() {
	cs.appendAssistant(welcomeText, cs.state.Model())
}

func (cs *ChatService) pushModel() {
	cs.sendToUI(eventbus.ModelEvent{Name: cs.state.Model()})
}

func (cs *ChatService) pushMessage(msg models.Message) {
	cs.sendToUI(eventbus.MessageAppendedEvent{Message: msg})
}

func (cs *ChatService) notice(text string) {
	cs.sendToUI(eventbus.NoticeEvent{Text: text})
}

func (cs *ChatService) sendToUI(event eventbus.CoreEvent) {
	if err := cs.bus.SendToUI(event); err != nil {
		cs.logger.Error("failed to push event to UI", "err", err)
	}
}

// displayTranscript maps a stored session to display messages. System
// directives are internal and stay hidden.
func displayTranscript(sess *storage.Session) []models.Message {
	var result []models.Message
	for _, m := range sess.Messages {
		var kind models.MessageType
		switch m.Role {
		case "user":
			kind = models.User
		case "assistant":
			kind = models.Assistant
		default:
			continue
		}
		result = append(result, models.Message{
			Content:   m.Content,
			Type:      kind,
			Model:     m.Model,
			Timestamp: m.Timestamp,
		})
	}
	return result
}
