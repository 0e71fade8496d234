// Package storage persists chat sessions as JSON files, one file per
// session, under the littui data directory.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a persisted transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user", "assistant", "system"
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a persisted conversation. Messages preserve insertion order.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// NewMessage builds a transcript entry with a fresh id and timestamp.
func NewMessage(role, content, model string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Model:     model,
		Timestamp: time.Now(),
	}
}

// AddMessage appends to the transcript and refreshes the title when the
// first user message arrives.
func (s *Session) AddMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
	if s.Title == "New Chat" || s.Title == "" {
		if msg.Role == "user" {
			s.Title = titleFrom(msg.Content)
		}
	}
}

// HasSystemMessage reports whether a system directive was already inserted.
func (s *Session) HasSystemMessage() bool {
	for _, m := range s.Messages {
		if m.Role == "system" {
			return true
		}
	}
	return false
}

// InsertSystemMessage places a system directive at position 0.
func (s *Session) InsertSystemMessage(content string) {
	msg := NewMessage("system", content, "")
	s.Messages = append([]Message{msg}, s.Messages...)
}

func titleFrom(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	if content == "" {
		return "New Chat"
	}
	return content
}

// SessionMeta is the listing view of a session.
type SessionMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ErrSessionNotFound is returned when a session id has no file on disk.
// Check with errors.Is.
var ErrSessionNotFound = &SessionError{Message: "session not found"}

// SessionError is a storage-level error with errors.Is support.
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string { return e.Message }

func (e *SessionError) Is(target error) bool {
	t, ok := target.(*SessionError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// SessionStore reads and writes sessions in a single directory.
type SessionStore struct {
	baseDir string
}

func NewSessionStore(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &SessionStore{baseDir: baseDir}, nil
}

// Create starts a new empty session bound to a model.
func (s *SessionStore) Create(model string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     "New Chat",
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
	if err := s.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save persists a session, updating its timestamp.
func (s *SessionStore) Save(sess *Session) error {
	sess.UpdatedAt = time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.UpdatedAt
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write prevents a torn file if we crash mid-save
	return atomicWriteFile(s.filePath(sess.ID), data, 0644)
}

// Load retrieves a session by id.
func (s *SessionStore) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// List returns session metadata, most recently updated first. A limit of 0
// means unlimited.
func (s *SessionStore) List(limit int) ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMeta{}, nil
		}
		return nil, err
	}

	var metas []SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		sess, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // skip corrupted files
		}

		metas = append(metas, SessionMeta{
			ID:           sess.ID,
			Title:        sess.Title,
			Model:        sess.Model,
			UpdatedAt:    sess.UpdatedAt,
			MessageCount: len(sess.Messages),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	if limit > 0 && len(metas) > limit {
		metas = metas[:limit]
	}
	return metas, nil
}

// Delete removes a session file.
func (s *SessionStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// LoadLastModel returns the model used in the previous run, or "" when none
// was recorded.
func (s *SessionStore) LoadLastModel() (string, error) {
	data, err := os.ReadFile(s.lastModelPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveLastModel records the active model for the next run.
func (s *SessionStore) SaveLastModel(name string) error {
	return atomicWriteFile(s.lastModelPath(), []byte(name+"\n"), 0644)
}

func (s *SessionStore) filePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *SessionStore) lastModelPath() string {
	return filepath.Join(s.baseDir, "last_model")
}

// atomicWriteFile writes to a temp file in the same directory and renames it
// over the target.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".littui-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
