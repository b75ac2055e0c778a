package agent

import (
	"sync"
	"time"
)

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is one exchange unit in a session's conversation.
type Turn struct {
	Role      TurnRole  `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Memory is the append-only ordered log of turns for one session.
// Appends are mutex-serialized; turns are never reordered or deduplicated.
// One session's memory is never visible to another session.
type Memory struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewMemory creates an empty session memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds a turn at the end of the log.
func (m *Memory) Append(role TurnRole, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Turns returns a copy of the ordered turn log.
func (m *Memory) Turns() []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len returns the number of stored turns.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}

// Reset clears the turn log. The memory itself stays usable; a "new chat"
// signal resets the sequence without destroying the session.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}
