package update

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/litware/littui/internal/eventbus"
	"github.com/litware/littui/internal/mcp"
	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/internal/storage"
	"github.com/litware/littui/ui/components"
)

func TestHandleCoreEvent_StreamingSequence(t *testing.T) {
	app := &models.AppModel{}
	list := components.NewMessageList()

	HandleCoreEvent(app, list, eventbus.MessageAppendedEvent{
		Message: models.Message{Content: "hi", Type: models.User},
	})
	HandleCoreEvent(app, list, eventbus.StreamOpenedEvent{Model: "llama3.2:3b"})

	var partials []string
	for _, chunk := range []string{"Hel", "lo", " world"} {
		HandleCoreEvent(app, list, eventbus.StreamDeltaEvent{Content: chunk})
		msgs := list.Messages()
		partials = append(partials, msgs[len(msgs)-1].Content)
	}
	require.Equal(t, []string{"Hel", "Hello", "Hello world"}, partials)

	HandleCoreEvent(app, list, eventbus.StreamClosedEvent{Content: "Hello world"})

	msgs := list.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "Hello world", msgs[1].Content)
	require.False(t, msgs[1].Streaming)
	require.Equal(t, "Ready", app.Status)
}

func TestHandleCoreEvent_Generating(t *testing.T) {
	app := &models.AppModel{LoadingDots: 3}
	list := components.NewMessageList()

	HandleCoreEvent(app, list, eventbus.GeneratingEvent{Generating: true})
	require.True(t, app.Generating)
	require.Equal(t, "Sending", app.Status)

	HandleCoreEvent(app, list, eventbus.GeneratingEvent{Generating: false})
	require.False(t, app.Generating)
	require.Zero(t, app.LoadingDots)
}

func TestHandleCoreEvent_Transcript(t *testing.T) {
	app := &models.AppModel{}
	list := components.NewMessageList()
	list.Append(models.Message{Content: "stale", Type: models.User})

	HandleCoreEvent(app, list, eventbus.TranscriptEvent{Messages: []models.Message{
		{Content: "restored", Type: models.User},
	}})

	msgs := list.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "restored", msgs[0].Content)
}

func TestHandleCoreEvent_SessionList(t *testing.T) {
	app := &models.AppModel{}
	list := components.NewMessageList()

	HandleCoreEvent(app, list, eventbus.SessionListEvent{Sessions: []storage.SessionMeta{
		{ID: "a", Title: "first chat", MessageCount: 4},
		{ID: "b", Title: "second chat", MessageCount: 2},
	}})

	require.Len(t, app.Sessions, 2)
	require.Equal(t, "first chat", app.Sessions[0].Title)
	require.Equal(t, "2 saved sessions", app.Status)
}

func TestHandleCoreEvent_Tools(t *testing.T) {
	app := &models.AppModel{}
	list := components.NewMessageList()

	HandleCoreEvent(app, list, eventbus.ToolsEvent{
		Health: mcp.Health{
			Enabled:    true,
			TotalTools: 2,
			Servers:    map[string]mcp.ServerHealth{"files": {Running: true}},
		},
		Tools: []mcp.ToolDescriptor{
			{Name: "files__read_file", Description: "Read a file"},
			{Name: "files__list_dir", Description: "List a directory"},
		},
	})

	require.True(t, app.ToolsReady)
	require.Equal(t, 2, app.ToolCount)

	msgs := list.Messages()
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Content, "files: running")
	require.Contains(t, msgs[0].Content, "files__read_file")
}

func TestHandleCoreEvent_ToolsDisabled(t *testing.T) {
	app := &models.AppModel{}
	list := components.NewMessageList()

	HandleCoreEvent(app, list, eventbus.ToolsEvent{Health: mcp.Health{}})

	require.False(t, app.ToolsReady)
	require.Contains(t, list.Messages()[0].Content, "MCP is disabled")
}

func TestHandleCoreEvent_Notice(t *testing.T) {
	app := &models.AppModel{}
	list := components.NewMessageList()

	changed := HandleCoreEvent(app, list, eventbus.NoticeEvent{Text: "Session abc not found"})
	require.False(t, changed)
	require.Equal(t, "Session abc not found", app.Status)
	require.Zero(t, list.Len())
}
