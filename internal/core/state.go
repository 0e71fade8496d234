package core

import (
	"sync"

	"github.com/litware/littui/internal/ollama"
	"github.com/litware/littui/internal/storage"
)

// ChatState owns the active session and the single-slot generation guard.
// All access is mutex-protected; the UI never touches it directly.
type ChatState struct {
	mu         sync.RWMutex
	session    *storage.Session
	model      string
	generating bool
}

func NewChatState(session *storage.Session, model string) *ChatState {
	return &ChatState{session: session, model: model}
}

// BeginTurn claims the generation slot. Returns false when a turn is already
// in flight; the caller must drop the submission in that case.
func (cs *ChatState) BeginTurn() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.generating {
		return false
	}
	cs.generating = true
	return true
}

// EndTurn releases the generation slot. Safe to call from deferred paths.
func (cs *ChatState) EndTurn() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.generating = false
}

func (cs *ChatState) Generating() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.generating
}

func (cs *ChatState) Model() string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.model
}

func (cs *ChatState) SetModel(name string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.model = name
	if cs.session != nil {
		cs.session.Model = name
	}
}

// SetSession swaps the active session. The previous one is discarded, not
// deleted; it stays on disk.
func (cs *ChatState) SetSession(sess *storage.Session) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.session = sess
	if sess != nil && sess.Model != "" {
		cs.model = sess.Model
	}
}

// Snapshot returns a deep copy of the active session. Persistence works on
// the copy so the store never touches the guarded struct outside the lock.
func (cs *ChatState) Snapshot() storage.Session {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	snap := *cs.session
	snap.Messages = make([]storage.Message, len(cs.session.Messages))
	copy(snap.Messages, cs.session.Messages)
	return snap
}

func (cs *ChatState) SessionID() string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.session == nil {
		return ""
	}
	return cs.session.ID
}

// Append adds a message to the transcript.
func (cs *ChatState) Append(msg storage.Message) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.session.AddMessage(msg)
}

func (cs *ChatState) HasSystemMessage() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.session.HasSystemMessage()
}

// InsertSystem places the composed directive at transcript position 0.
func (cs *ChatState) InsertSystem(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.session.InsertSystemMessage(content)
}

// Messages returns a copy of the transcript.
func (cs *ChatState) Messages() []storage.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]storage.Message, len(cs.session.Messages))
	copy(result, cs.session.Messages)
	return result
}

// PromptMessages maps the transcript to the wire format for generation.
func (cs *ChatState) PromptMessages() []ollama.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	result := make([]ollama.Message, 0, len(cs.session.Messages))
	for _, m := range cs.session.Messages {
		result = append(result, ollama.Message{Role: m.Role, Content: m.Content})
	}
	return result
}
