package models

import "time"

// LearningKind says which external lookup resolves a queue item.
type LearningKind string

const (
	LearnWord  LearningKind = "word"
	LearnTopic LearningKind = "topic"
)

// LearningQueueItem is one deferred lookup awaiting background resolution.
// Priority runs 1 (lowest) to 5 (highest) and is fixed at enqueue time.
type LearningQueueItem struct {
	ID         string       `json:"id"`
	Kind       LearningKind `json:"kind"`
	Target     string       `json:"target"`
	Priority   int          `json:"priority"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}
