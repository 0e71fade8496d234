package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/litware/littui/internal/mcp"
	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/internal/storage"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI submits a chat message
type SendMessageEvent struct {
	Message string
}

func (e SendMessageEvent) UIEvent() {}

// NewChatEvent - UI requests a fresh session
type NewChatEvent struct{}

func (e NewChatEvent) UIEvent() {}

// LoadSessionEvent - UI requests switching to a stored session
type LoadSessionEvent struct {
	ID string
}

func (e LoadSessionEvent) UIEvent() {}

// ListSessionsEvent - UI requests the stored session list
type ListSessionsEvent struct{}

func (e ListSessionsEvent) UIEvent() {}

// SwitchModelEvent - UI requests a different Ollama model
type SwitchModelEvent struct {
	Name string
}

func (e SwitchModelEvent) UIEvent() {}

// ShowToolsEvent - UI requests MCP tool/server status
type ShowToolsEvent struct{}

func (e ShowToolsEvent) UIEvent() {}

// CallToolEvent - UI invokes an MCP tool directly
type CallToolEvent struct {
	Name string
	Args map[string]any
}

func (e CallToolEvent) UIEvent() {}

// MessageAppendedEvent - Core adds a complete message the UI has not seen
type MessageAppendedEvent struct {
	Message models.Message
}

func (e MessageAppendedEvent) CoreEvent() {}

// TranscriptEvent - Core replaces the whole displayed transcript
type TranscriptEvent struct {
	SessionID string
	Messages  []models.Message
}

func (e TranscriptEvent) CoreEvent() {}

// StreamOpenedEvent - Core started streaming an assistant reply
type StreamOpenedEvent struct {
	Model string
}

func (e StreamOpenedEvent) CoreEvent() {}

// StreamDeltaEvent - Core produced one chunk of the in-flight reply
type StreamDeltaEvent struct {
	Content string
}

func (e StreamDeltaEvent) CoreEvent() {}

// StreamClosedEvent - Core finished the in-flight reply. Content carries the
// full accumulated text so the UI can true up the displayed message.
type StreamClosedEvent struct {
	Content string
}

func (e StreamClosedEvent) CoreEvent() {}

// GeneratingEvent - Core toggles the busy indicator
type GeneratingEvent struct {
	Generating bool
}

func (e GeneratingEvent) CoreEvent() {}

// NoticeEvent - Core reports a non-fatal status line
type NoticeEvent struct {
	Text string
}

func (e NoticeEvent) CoreEvent() {}

// SessionListEvent - Core delivers stored session metadata
type SessionListEvent struct {
	Sessions []storage.SessionMeta
}

func (e SessionListEvent) CoreEvent() {}

// ModelEvent - Core reports the active model
type ModelEvent struct {
	Name string
}

func (e ModelEvent) CoreEvent() {}

// ToolsEvent - Core delivers MCP health and the advertised tool list
type ToolsEvent struct {
	Health mcp.Health
	Tools  []mcp.ToolDescriptor
}

func (e ToolsEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker implements circuit breaker pattern. The bus is shared by
// the event-loop goroutine and the per-turn streaming goroutine, so breaker
// state is mutex-guarded.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendToCore", err)
		return err
	}

	select {
	case eb.uiToCore <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("UI to Core channel is full")
		eb.reportError("SendToCore", err)
		return err
	}
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendToUI", err)
		return err
	}

	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("Core to UI channel is full")
		eb.reportError("SendToUI", err)
		return err
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

func (eb *EventBus) Close() {
	close(eb.uiToCore)
	close(eb.coreToUI)
}
