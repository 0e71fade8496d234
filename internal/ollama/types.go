package ollama

import "time"

// Message is a chat message in Ollama's wire format.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

func NewUserMessage(content string) Message { return Message{Role: "user", Content: content} }

// ChatRequest is the request body for the /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatResponse is a single /api/chat response object. With stream=true the
// endpoint emits one of these per line (NDJSON), the last carrying Done.
type ChatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`
	Done      bool      `json:"done"`
}

// ModelInfo describes a locally available model from /api/tags.
type ModelInfo struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details,omitempty"`
}

type ModelDetails struct {
	Family        string `json:"family"`
	ParameterSize string `json:"parameter_size"`
}

type listModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// StreamChunk is one fragment of a streaming chat completion.
type StreamChunk struct {
	Content string
	Done    bool
	Model   string
	// Error is set on chunks delivered through ChatStreamChan when the
	// underlying stream fails.
	Error error
}

// apiError is the error body Ollama returns on non-200 responses.
type apiError struct {
	Error string `json:"error"`
}
