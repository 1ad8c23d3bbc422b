package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"synapse/internal/models"
)

// ConversationLog is the append-only bounded turn log. Oldest turns are
// trimmed past the cap.
type ConversationLog struct {
	mu    sync.RWMutex
	turns []models.ConversationTurn
	cap   int
}

// NewConversationLog creates a log retaining at most capacity turns.
func NewConversationLog(capacity int) *ConversationLog {
	if capacity <= 0 {
		capacity = 200
	}
	return &ConversationLog{cap: capacity}
}

// Append records a turn and trims the log to its cap.
func (l *ConversationLog) Append(role, content string, confidence *float64) models.ConversationTurn {
	turn := models.ConversationTurn{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, turn)
	if excess := len(l.turns) - l.cap; excess > 0 {
		l.turns = append(l.turns[:0:0], l.turns[excess:]...)
	}
	return turn
}

// Turns returns a snapshot of the log, oldest first.
func (l *ConversationLog) Turns() []models.ConversationTurn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.ConversationTurn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of retained turns.
func (l *ConversationLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Trim drops the oldest turns beyond the cap. Appends already trim; this
// exists for the retention job after the cap is lowered at runtime.
func (l *ConversationLog) Trim() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	excess := len(l.turns) - l.cap
	if excess <= 0 {
		return 0
	}
	l.turns = append(l.turns[:0:0], l.turns[excess:]...)
	return excess
}
