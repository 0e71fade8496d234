package components

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/litware/littui/ui/styles"
)

// NewInput builds the chat input field.
func NewInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message, or /help for commands"
	ti.CharLimit = 4096
	ti.Focus()
	return ti
}

func RenderInput(input textinput.Model, width int) string {
	return styles.InputStyle(width).Render(input.View())
}
