package queue

import (
	"testing"
	"time"

	"synapse/internal/models"
)

func TestEnqueuePop(t *testing.T) {
	q := New(10)

	q.Enqueue(models.LearnWord, "alpha", 2)
	q.Enqueue(models.LearnTopic, "beta", 5)
	q.Enqueue(models.LearnWord, "gamma", 3)

	item, ok := q.Pop()
	if !ok || item.Target != "beta" {
		t.Errorf("first pop = %q, want highest priority \"beta\"", item.Target)
	}
	item, _ = q.Pop()
	if item.Target != "gamma" {
		t.Errorf("second pop = %q, want \"gamma\"", item.Target)
	}
	item, _ = q.Pop()
	if item.Target != "alpha" {
		t.Errorf("third pop = %q, want \"alpha\"", item.Target)
	}
	if _, ok := q.Pop(); ok {
		t.Error("pop on empty queue reported ok")
	}
}

func TestPopFIFOWithinPriority(t *testing.T) {
	q := New(10)

	q.Enqueue(models.LearnWord, "first", 3)
	q.Enqueue(models.LearnWord, "second", 3)
	q.Enqueue(models.LearnWord, "third", 3)

	for _, want := range []string{"first", "second", "third"} {
		item, ok := q.Pop()
		if !ok || item.Target != want {
			t.Errorf("pop = %q, want %q (FIFO within equal priority)", item.Target, want)
		}
	}
}

func TestEnqueueDeduplicates(t *testing.T) {
	q := New(10)

	if !q.Enqueue(models.LearnWord, "Apple", 3) {
		t.Fatal("first enqueue rejected")
	}
	if q.Enqueue(models.LearnWord, "apple!", 5) {
		t.Error("duplicate (normalized) target was accepted")
	}
	// Same target under a different kind is a different item.
	if !q.Enqueue(models.LearnTopic, "apple", 3) {
		t.Error("same target under another kind was rejected")
	}
	if q.Len() != 2 {
		t.Errorf("queue depth = %d, want 2", q.Len())
	}
}

func TestEnqueueClampsPriority(t *testing.T) {
	q := New(10)

	q.Enqueue(models.LearnWord, "low", -3)
	q.Enqueue(models.LearnWord, "high", 99)

	items := q.Items()
	for _, item := range items {
		if item.Priority < 1 || item.Priority > 5 {
			t.Errorf("priority %d for %q outside 1..5", item.Priority, item.Target)
		}
	}
}

func TestEnqueueFullQueueDrops(t *testing.T) {
	q := New(2)

	q.Enqueue(models.LearnWord, "one", 3)
	q.Enqueue(models.LearnWord, "two", 3)
	if q.Enqueue(models.LearnWord, "three", 5) {
		t.Error("enqueue on a full queue was accepted")
	}
	if q.Len() != 2 {
		t.Errorf("queue depth = %d, want 2", q.Len())
	}
}

func TestEnqueueRejectsEmptyTarget(t *testing.T) {
	q := New(10)
	if q.Enqueue(models.LearnWord, "  !? ", 3) {
		t.Error("enqueue accepted a target that normalizes to empty")
	}
}

func TestDropOlderThan(t *testing.T) {
	q := New(10)

	q.Enqueue(models.LearnWord, "stale", 3)
	q.Enqueue(models.LearnWord, "fresh", 3)

	// Backdate the first item.
	q.mu.Lock()
	q.items[0].EnqueuedAt = time.Now().Add(-2 * time.Hour)
	q.mu.Unlock()

	if dropped := q.DropOlderThan(time.Hour); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if q.Len() != 1 {
		t.Errorf("queue depth = %d, want 1", q.Len())
	}
	item, _ := q.Pop()
	if item.Target != "fresh" {
		t.Errorf("survivor = %q, want \"fresh\"", item.Target)
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name   string
		kind   models.LearningKind
		target string
		want   int
	}{
		{"short word", models.LearnWord, "cat", 3},
		{"long word", models.LearnWord, "sesquipedalian", 4},
		{"short topic", models.LearnTopic, "go", 4},
		{"long topic", models.LearnTopic, "quantum computing", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriorityFor(tt.kind, tt.target); got != tt.want {
				t.Errorf("PriorityFor(%s, %q) = %d, want %d", tt.kind, tt.target, got, tt.want)
			}
		})
	}
}
