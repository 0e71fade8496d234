package models

import "time"

type MessageType int

const (
	User MessageType = iota
	Assistant
	Tool
	Program
)

// Message is a single entry in the chat display. Transcript messages carry
// the model that produced them; Program messages are UI-only notices and are
// never persisted.
type Message struct {
	Content   string
	Type      MessageType
	Model     string
	Timestamp time.Time
	// Streaming marks the assistant message currently receiving chunks.
	Streaming bool
	// ToolName is set for Tool messages (manual MCP invocations).
	ToolName string
}
