package jobs

import (
	"context"
	"testing"
	"time"

	"synapse/internal/models"
	"synapse/internal/pipeline"
	"synapse/internal/queue"
)

func TestRetentionRun(t *testing.T) {
	conversation := pipeline.NewConversationLog(5)
	for i := 0; i < 8; i++ {
		conversation.Append("user", "hi", nil)
	}

	q := queue.New(10)
	q.Enqueue(models.LearnWord, "fresh", 3)

	job := NewRetentionJob(conversation, q, time.Hour, time.Minute)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if conversation.Len() > 5 {
		t.Errorf("conversation retained %d turns, cap is 5", conversation.Len())
	}
	if q.Len() != 1 {
		t.Errorf("fresh queue item was dropped; depth = %d, want 1", q.Len())
	}
}
