package jobs

import (
	"context"
	"log"
	"time"

	"synapse/internal/knowledge"
	"synapse/internal/lookup"
	"synapse/internal/models"
	"synapse/internal/queue"
)

// Resolver is the slice of the external lookup collaborator the drain
// consumes.
type Resolver interface {
	LookupWord(ctx context.Context, word string) (*lookup.WordResult, error)
	LookupTopic(ctx context.Context, topic string) (*lookup.TopicResult, error)
}

// LearningDrainJob pops one queue item per tick and resolves it through
// the external lookup. Failed lookups are dropped, not retried.
type LearningDrainJob struct {
	queue         *queue.LearningQueue
	store         *knowledge.Store
	resolver      Resolver
	interval      time.Duration
	lookupTimeout time.Duration
}

// NewLearningDrainJob creates the drain job.
func NewLearningDrainJob(q *queue.LearningQueue, store *knowledge.Store, resolver Resolver, interval, lookupTimeout time.Duration) *LearningDrainJob {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 2500 * time.Millisecond
	}
	return &LearningDrainJob{
		queue:         q,
		store:         store,
		resolver:      resolver,
		interval:      interval,
		lookupTimeout: lookupTimeout,
	}
}

// Interval implements Job.
func (j *LearningDrainJob) Interval() time.Duration { return j.interval }

// Run resolves the highest-priority pending item, if any.
func (j *LearningDrainJob) Run(ctx context.Context) error {
	item, ok := j.queue.Pop()
	if !ok {
		return nil
	}

	// The store may have learned the target through the interactive path
	// while the item sat in the queue.
	kind := models.KindVocabulary
	if item.Kind == models.LearnTopic {
		kind = models.KindFact
	}
	if j.store.Has(kind, item.Target) {
		log.Printf("📤 [LEARNING] %q already known, skipping", item.Target)
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, j.lookupTimeout)
	defer cancel()

	switch item.Kind {
	case models.LearnWord:
		result, err := j.resolver.LookupWord(lookupCtx, item.Target)
		if err != nil {
			log.Printf("📤 [LEARNING] Dropping word %q after failed lookup: %v", item.Target, err)
			return nil
		}
		j.store.Upsert(ctx, models.KnowledgeEntry{
			Kind:         models.KindVocabulary,
			Key:          item.Target,
			Value:        result.Definition,
			PartOfSpeech: result.PartOfSpeech,
			Examples:     result.Examples,
			Source:       models.SourceLearned,
			Confidence:   0.8,
		})
		log.Printf("📤 [LEARNING] Learned word %q from background drain", item.Target)

	case models.LearnTopic:
		result, err := j.resolver.LookupTopic(lookupCtx, item.Target)
		if err != nil {
			log.Printf("📤 [LEARNING] Dropping topic %q after failed lookup: %v", item.Target, err)
			return nil
		}
		j.store.Upsert(ctx, models.KnowledgeEntry{
			Kind:       models.KindFact,
			Key:        item.Target,
			Value:      result.Summary,
			URL:        result.URL,
			Source:     models.SourceLearned,
			Confidence: 0.8,
		})
		log.Printf("📤 [LEARNING] Learned topic %q from background drain", item.Target)
	}

	return nil
}
