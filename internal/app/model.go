package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litware/littui/internal/dispatcher"
	"github.com/litware/littui/internal/eventbus"
	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/internal/update"
	"github.com/litware/littui/internal/utils"
	"github.com/litware/littui/ui/components"
)

// AppModel is the Bubble Tea model. It owns only display state; all chat
// semantics live in the core and arrive as events.
type AppModel struct {
	app        models.AppModel
	list       *components.MessageList
	input      textinput.Model
	viewport   viewport.Model
	md         *utils.MarkdownRenderer
	dispatcher *dispatcher.EventDispatcher
	ready      bool
}

func NewAppModel(disp *dispatcher.EventDispatcher, sessionID string) *AppModel {
	return &AppModel{
		app: models.AppModel{
			Status:    "Ready",
			SessionID: sessionID,
		},
		list:       components.NewMessageList(),
		input:      components.NewInput(),
		md:         utils.NewMarkdownRenderer(80),
		dispatcher: disp,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		update.TickCmd(),
		m.dispatcher.ListenForUIEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatcher.CoreEventMsg:
		if update.HandleCoreEvent(&m.app, m.list, msg.Event) {
			m.refreshViewport()
		}
		return m, m.dispatcher.ListenForUIEvents()

	case dispatcher.CoreClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		update.HandleWindowSizeMsg(&m.app, msg)
		m.resize()
		return m, nil

	case update.TickMsg:
		return m, update.HandleTickMsg(&m.app)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m.handleSubmit()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	if cmd, ok := update.ParseCommand(text); ok {
		if cmd.Quit {
			return m, tea.Quit
		}
		if cmd.Notice != "" {
			m.app.Status = firstLine(cmd.Notice)
			if strings.Contains(cmd.Notice, "\n") {
				m.list.Append(models.Message{Content: cmd.Notice, Type: models.Program})
				m.refreshViewport()
			}
		}
		if cmd.Event != nil {
			m.sendToCore(cmd.Event)
		}
		return m, nil
	}

	m.sendToCore(eventbus.SendMessageEvent{Message: text})
	return m, nil
}

func (m *AppModel) sendToCore(event eventbus.UIEvent) {
	if err := m.dispatcher.GetEventBus().SendToCore(event); err != nil {
		m.app.Status = "Error: " + err.Error()
	}
}

func (m *AppModel) resize() {
	m.md = utils.NewMarkdownRenderer(m.mainWidth() - 8)
	if !m.ready {
		m.viewport = viewport.New(m.mainWidth(), m.viewportHeight())
		m.ready = true
	} else {
		m.viewport.Width = m.mainWidth()
		m.viewport.Height = m.viewportHeight()
	}
	m.refreshViewport()
}

func (m *AppModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.list.Render(m.md))
	m.viewport.GotoBottom()
}

func (m *AppModel) mainWidth() int {
	w := m.app.Width
	if m.sidebarVisible() {
		w -= 30
	}
	if w < 20 {
		w = 20
	}
	return w
}

// viewportHeight leaves room for the input box and the status bar.
func (m *AppModel) viewportHeight() int {
	h := m.app.Height - 4
	if h < 3 {
		h = 3
	}
	return h
}

func (m *AppModel) sidebarVisible() bool {
	return len(m.app.Sessions) > 0 && m.app.Width >= 80
}

func (m *AppModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		components.RenderInput(m.input, m.mainWidth()),
	)

	if m.sidebarVisible() {
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			components.RenderSidebar(&m.app, m.app.Height-2),
			main,
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		main,
		components.RenderStatus(&m.app),
	)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
