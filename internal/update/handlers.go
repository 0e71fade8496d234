package update

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litware/littui/internal/eventbus"
	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/ui/components"
)

// HandleCoreEvent applies one core event to the UI state. Returns true when
// the message list changed and the viewport needs re-rendering.
func HandleCoreEvent(app *models.AppModel, list *components.MessageList, event eventbus.CoreEvent) bool {
	switch e := event.(type) {
	case eventbus.MessageAppendedEvent:
		list.Append(e.Message)
		return true

	case eventbus.TranscriptEvent:
		if e.SessionID != "" {
			app.SessionID = e.SessionID
		}
		list.SetMessages(e.Messages)
		return true

	case eventbus.StreamOpenedEvent:
		list.OpenStream(e.Model)
		app.Status = "Generating"
		return true

	case eventbus.StreamDeltaEvent:
		list.AppendChunk(e.Content)
		return true

	case eventbus.StreamClosedEvent:
		list.CloseStream(e.Content)
		app.Status = "Ready"
		return true

	case eventbus.GeneratingEvent:
		app.Generating = e.Generating
		if e.Generating {
			app.Status = "Sending"
		} else {
			app.Status = "Ready"
			app.LoadingDots = 0
		}
		return false

	case eventbus.NoticeEvent:
		app.Status = e.Text
		return false

	case eventbus.SessionListEvent:
		app.Sessions = app.Sessions[:0]
		for _, meta := range e.Sessions {
			app.Sessions = append(app.Sessions, models.SessionEntry{
				ID:           meta.ID,
				Title:        meta.Title,
				MessageCount: meta.MessageCount,
			})
		}
		app.Status = fmt.Sprintf("%d saved sessions", len(e.Sessions))
		return false

	case eventbus.ModelEvent:
		app.Model = e.Name
		return false

	case eventbus.ToolsEvent:
		app.ToolsReady = e.Health.Enabled
		app.ToolCount = e.Health.TotalTools
		list.Append(models.Message{
			Content:   formatToolReport(e),
			Type:      models.Program,
			Timestamp: time.Now(),
		})
		return true
	}

	return false
}

func formatToolReport(e eventbus.ToolsEvent) string {
	if !e.Health.Enabled {
		return "MCP is disabled. Add servers to the config to enable tools."
	}

	var b strings.Builder
	names := make([]string, 0, len(e.Health.Servers))
	for name := range e.Health.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(&b, "MCP servers (%d tools):\n", e.Health.TotalTools)
	for _, name := range names {
		state := "stopped"
		if e.Health.Servers[name].Running {
			state = "running"
		}
		fmt.Fprintf(&b, "  %s: %s\n", name, state)
	}
	for _, tool := range e.Tools {
		fmt.Fprintf(&b, "  - %s: %s\n", tool.Name, tool.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TickMsg drives the loading animation.
type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleTickMsg(app *models.AppModel) tea.Cmd {
	if app.Generating {
		app.LoadingDots = (app.LoadingDots + 1) % 4
	}
	return TickCmd()
}

func HandleWindowSizeMsg(app *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	app.Width = sizeMsg.Width
	app.Height = sizeMsg.Height
}
