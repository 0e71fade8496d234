package utils

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant markdown for the terminal. A nil or
// failed renderer degrades to plain text rather than breaking the view.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &MarkdownRenderer{}
	}
	return &MarkdownRenderer{renderer: r}
}

// Render returns the styled text, or the input unchanged when rendering is
// unavailable.
func (m *MarkdownRenderer) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
