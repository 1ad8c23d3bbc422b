package jobs

import (
	"context"
	"log"
	"time"

	"synapse/internal/pipeline"
	"synapse/internal/queue"
)

// RetentionJob trims the conversation log to its cap and drops learning
// queue items that have been pending longer than the configured age.
type RetentionJob struct {
	conversation *pipeline.ConversationLog
	queue        *queue.LearningQueue
	queueMaxAge  time.Duration
	interval     time.Duration
}

// NewRetentionJob creates the retention job.
func NewRetentionJob(conversation *pipeline.ConversationLog, q *queue.LearningQueue, queueMaxAge, interval time.Duration) *RetentionJob {
	if queueMaxAge <= 0 {
		queueMaxAge = 24 * time.Hour
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &RetentionJob{
		conversation: conversation,
		queue:        q,
		queueMaxAge:  queueMaxAge,
		interval:     interval,
	}
}

// Interval implements Job.
func (j *RetentionJob) Interval() time.Duration { return j.interval }

// Run performs one cleanup pass.
func (j *RetentionJob) Run(ctx context.Context) error {
	trimmed := j.conversation.Trim()
	dropped := j.queue.DropOlderThan(j.queueMaxAge)
	if trimmed > 0 || dropped > 0 {
		log.Printf("🧹 [RETENTION] Trimmed %d turns, dropped %d stale queue items", trimmed, dropped)
	}
	return nil
}
