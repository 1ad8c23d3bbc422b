package models

import "time"

// ConversationTurn is one message in the bounded conversation log.
type ConversationTurn struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"` // "user" or "assistant"
	Content    string    `json:"content"`
	Confidence *float64  `json:"confidence,omitempty"` // assistant turns only
	Timestamp  time.Time `json:"timestamp"`
}
