// Package dispatcher bridges the core-to-UI side of the event bus into the
// Bubble Tea message loop.
package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litware/littui/internal/eventbus"
)

// CoreEventMsg wraps a core event as a Bubble Tea message.
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// CoreClosedMsg signals that the core side shut down.
type CoreClosedMsg struct{}

// EventDispatcher routes core events into the tea.Program.
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ListenForUIEvents returns a command that blocks until the next core event.
// The update loop re-issues it after every delivery, one event per message.
func (ed *EventDispatcher) ListenForUIEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ed.ctx.Done():
			return CoreClosedMsg{}
		case event, ok := <-ed.eventBus.CoreToUI():
			if !ok {
				return CoreClosedMsg{}
			}
			return CoreEventMsg{Event: event}
		}
	}
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
