package update

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/litware/littui/internal/eventbus"
)

const helpText = `Commands:
  /new              start a new chat
  /sessions         list saved sessions
  /load <id>        switch to a saved session
  /model <name>     switch the Ollama model
  /tools            show MCP servers and tools
  /tool <name> [{json args}]  invoke an MCP tool directly
  /help             show this help
  /quit             exit`

// Command is the parsed form of a slash command.
type Command struct {
	// Event is sent to the core when non-nil.
	Event eventbus.UIEvent
	// Notice is shown locally in the status bar or transcript.
	Notice string
	Quit   bool
}

// ParseCommand interprets slash commands. Returns false when the input is a
// plain chat message.
func ParseCommand(input string) (Command, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Command{}, false
	}

	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case "/new":
		return Command{Event: eventbus.NewChatEvent{}}, true

	case "/sessions":
		return Command{Event: eventbus.ListSessionsEvent{}}, true

	case "/load":
		if len(args) != 1 {
			return Command{Notice: "Usage: /load <session-id>"}, true
		}
		return Command{Event: eventbus.LoadSessionEvent{ID: args[0]}}, true

	case "/model":
		if len(args) != 1 {
			return Command{Notice: "Usage: /model <name>"}, true
		}
		return Command{Event: eventbus.SwitchModelEvent{Name: args[0]}}, true

	case "/tools":
		return Command{Event: eventbus.ShowToolsEvent{}}, true

	case "/tool":
		return parseToolCommand(input, args)

	case "/help":
		return Command{Notice: helpText}, true

	case "/quit", "/exit":
		return Command{Quit: true}, true

	default:
		return Command{Notice: fmt.Sprintf("Unknown command %s, try /help", name)}, true
	}
}

func parseToolCommand(input string, args []string) (Command, bool) {
	if len(args) == 0 {
		return Command{Notice: "Usage: /tool <server__tool> [{json args}]"}, true
	}

	toolArgs := map[string]any{}
	if idx := strings.Index(input, "{"); idx >= 0 {
		if err := json.Unmarshal([]byte(input[idx:]), &toolArgs); err != nil {
			return Command{Notice: fmt.Sprintf("Invalid tool arguments: %v", err)}, true
		}
	}

	return Command{Event: eventbus.CallToolEvent{Name: args[0], Args: toolArgs}}, true
}
