package chat

import (
	"sync"
	"time"
)

// Session is an ordered transcript of one conversation.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionTable is the process-wide map of chat sessions, guarded by its own
// lock. It starts empty and has no teardown; it is passed explicitly to the
// layers that need it rather than living as a package global. Readers always
// receive copies.
type SessionTable struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{sessions: make(map[string]*Session)}
}

// Append adds a message to the session, creating the session when it does
// not exist yet, and returns the updated transcript as a copy.
func (t *SessionTable) Append(sessionID string, msg Message) Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		now := time.Now().UTC()
		s = &Session{ID: sessionID, CreatedAt: now, UpdatedAt: now}
		t.sessions[sessionID] = s
	}

	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now().UTC()
	return copySession(s)
}

// Get returns a copy of the session, or false when absent.
func (t *SessionTable) Get(sessionID string) (Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return copySession(s), true
}

// IDs lists the ids of all live sessions.
func (t *SessionTable) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Delete removes a session, reporting whether it existed.
func (t *SessionTable) Delete(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sessions[sessionID]; !ok {
		return false
	}
	delete(t.sessions, sessionID)
	return true
}

func copySession(s *Session) Session {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}
