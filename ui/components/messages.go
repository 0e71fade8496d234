package components

import (
	"strings"
	"time"

	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/internal/utils"
	"github.com/litware/littui/ui/styles"
)

// MessageList is the append-only display sink. It supports whole-message
// appends and incremental chunks onto the most recently added message.
type MessageList struct {
	messages []models.Message
}

func NewMessageList() *MessageList {
	return &MessageList{}
}

// Append adds a complete message at the end.
func (ml *MessageList) Append(msg models.Message) {
	ml.messages = append(ml.messages, msg)
}

// OpenStream adds an empty assistant message that subsequent chunks extend.
func (ml *MessageList) OpenStream(model string) {
	ml.messages = append(ml.messages, models.Message{
		Type:      models.Assistant,
		Model:     model,
		Timestamp: time.Now(),
		Streaming: true,
	})
}

// AppendChunk extends the most recently added message. A chunk arriving with
// no message present opens one, so deltas are never lost.
func (ml *MessageList) AppendChunk(chunk string) {
	if len(ml.messages) == 0 {
		ml.OpenStream("")
	}
	ml.messages[len(ml.messages)-1].Content += chunk
}

// CloseStream replaces the in-flight message content with the final text and
// clears the streaming mark.
func (ml *MessageList) CloseStream(content string) {
	if len(ml.messages) == 0 {
		ml.OpenStream("")
	}
	last := &ml.messages[len(ml.messages)-1]
	last.Content = content
	last.Streaming = false
}

// Clear removes all entries and resets to empty.
func (ml *MessageList) Clear() {
	ml.messages = nil
}

// SetMessages replaces the whole display, used when loading a session.
func (ml *MessageList) SetMessages(msgs []models.Message) {
	ml.messages = append([]models.Message(nil), msgs...)
}

// Messages returns a copy of the current entries in insertion order.
func (ml *MessageList) Messages() []models.Message {
	return append([]models.Message(nil), ml.messages...)
}

func (ml *MessageList) Len() int {
	return len(ml.messages)
}

// Render produces the scrollback text. Assistant messages go through the
// markdown renderer; everything else is styled plain text.
func (ml *MessageList) Render(md *utils.MarkdownRenderer) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	toolStyle := styles.ToolStyle()
	programStyle := styles.ProgramStyle()

	for _, msg := range ml.messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			content := msg.Content
			if !msg.Streaming {
				// Partial markdown renders badly, wait for the full text
				content = md.Render(content)
			}
			b.WriteString(assistantStyle.Render("Assistant: "+content) + "\n\n")
		case models.Tool:
			b.WriteString(toolStyle.Render(msg.ToolName+": "+msg.Content) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		}
	}

	return b.String()
}
