// Package queue implements the learning queue: a priority-ordered backlog
// of word and topic lookups deferred for background resolution.
package queue

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"synapse/internal/models"
)

// LearningQueue holds pending lookup requests. Pop returns the highest
// priority item, FIFO within a priority level. Failed lookups are not
// re-enqueued.
type LearningQueue struct {
	mu      sync.Mutex
	items   []models.LearningQueueItem
	maxSize int
}

// New creates a learning queue holding at most maxSize items.
func New(maxSize int) *LearningQueue {
	if maxSize <= 0 {
		maxSize = 500
	}
	return &LearningQueue{maxSize: maxSize}
}

// Enqueue adds an item unless the same (kind, target) is already pending
// or the queue is full. The target is normalized, the ID and timestamp are
// assigned here, and the priority is clamped to 1..5.
func (q *LearningQueue) Enqueue(kind models.LearningKind, target string, priority int) bool {
	target = models.NormalizeKey(target)
	if target == "" {
		return false
	}
	if priority < 1 {
		priority = 1
	}
	if priority > 5 {
		priority = 5
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.maxSize {
		log.Printf("⚠️  [LEARNING] Queue full (%d items), dropping %s %q", q.maxSize, kind, target)
		return false
	}
	for _, item := range q.items {
		if item.Kind == kind && item.Target == target {
			return false
		}
	}

	q.items = append(q.items, models.LearningQueueItem{
		ID:         uuid.NewString(),
		Kind:       kind,
		Target:     target,
		Priority:   priority,
		EnqueuedAt: time.Now(),
	})
	log.Printf("📥 [LEARNING] Queued %s %q (priority %d, depth %d)", kind, target, priority, len(q.items))
	return true
}

// Pop removes and returns the highest-priority item, FIFO within equal
// priorities. Returns false when the queue is empty.
func (q *LearningQueue) Pop() (models.LearningQueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return models.LearningQueueItem{}, false
	}

	best := 0
	for i, item := range q.items {
		if item.Priority > q.items[best].Priority {
			best = i
		}
	}

	item := q.items[best]
	q.items = append(q.items[:best], q.items[best+1:]...)
	return item, true
}

// Len returns the number of pending items.
func (q *LearningQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a snapshot of the pending items.
func (q *LearningQueue) Items() []models.LearningQueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.LearningQueueItem, len(q.items))
	copy(out, q.items)
	return out
}

// DropOlderThan removes items enqueued before the cutoff age and returns
// how many were dropped.
func (q *LearningQueue) DropOlderThan(age time.Duration) int {
	cutoff := time.Now().Add(-age)

	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	dropped := 0
	for _, item := range q.items {
		if item.EnqueuedAt.Before(cutoff) {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept
	return dropped
}

// PriorityFor computes an item's priority from a simple heuristic: topics
// rank above single words, and longer (more specific) targets rank higher.
// Evaluated once at enqueue time.
func PriorityFor(kind models.LearningKind, target string) int {
	priority := 3
	if kind == models.LearnTopic {
		priority++
	}
	if len(models.NormalizeKey(target)) >= 8 {
		priority++
	}
	if priority > 5 {
		priority = 5
	}
	return priority
}
