package pipeline

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"synapse/internal/knowledge"
	"synapse/internal/models"
	"synapse/internal/queue"
)

// topicPatterns extract the topic phrase, most explicit phrasing first.
var topicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tell me about (.+)`),
	regexp.MustCompile(`who (?:is|was) (.+)`),
	regexp.MustCompile(`what (?:is|are) (.+)`),
	regexp.MustCompile(`where is (.+)`),
	regexp.MustCompile(`why (?:is|are|do|does) (.+)`),
	regexp.MustCompile(`how (?:do|does|did) (.+)`),
}

// FactualProcessor answers knowledge questions: store search first, then a
// bounded encyclopedia lookup, then the learning queue.
type FactualProcessor struct {
	store           *knowledge.Store
	lookup          Lookup
	learning        *queue.LearningQueue
	lookupTimeout   time.Duration
	relevanceCutoff float64
}

// NewFactualProcessor creates the factual-knowledge pathway.
func NewFactualProcessor(store *knowledge.Store, lk Lookup, learning *queue.LearningQueue, lookupTimeout time.Duration, relevanceCutoff float64) *FactualProcessor {
	if lookupTimeout <= 0 {
		lookupTimeout = 2500 * time.Millisecond
	}
	if relevanceCutoff <= 0 {
		relevanceCutoff = 0.3
	}
	return &FactualProcessor{
		store:           store,
		lookup:          lk,
		learning:        learning,
		lookupTimeout:   lookupTimeout,
		relevanceCutoff: relevanceCutoff,
	}
}

// Name implements Processor.
func (p *FactualProcessor) Name() models.Pathway { return models.PathwayFactual }

// Process extracts a topic, searches stored facts by token overlap, and
// falls back to the encyclopedia collaborator on a miss.
func (p *FactualProcessor) Process(ctx context.Context, message string, activation float64) *models.PathwayResult {
	topic := extractTopic(message)
	if topic == "" {
		return nil
	}

	reasoning := []string{fmt.Sprintf("topic: %q", topic)}

	if hit := p.store.BestMatch(models.KindFact, topic); hit != nil && hit.Relevance >= p.relevanceCutoff {
		reasoning = append(reasoning,
			fmt.Sprintf("store match %q (relevance %.2f)", hit.Entry.Key, hit.Relevance))
		return &models.PathwayResult{
			Pathway:    models.PathwayFactual,
			Confidence: hit.Entry.Confidence,
			Answer:     hit.Entry.Value,
			Data:       map[string]any{"topic": topic, "matched_key": hit.Entry.Key, "relevance": hit.Relevance, "url": hit.Entry.URL},
			Reasoning:  reasoning,
		}
	}
	reasoning = append(reasoning, "no store match above threshold, trying encyclopedia lookup")

	lookupCtx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	defer cancel()

	result, err := p.lookup.LookupTopic(lookupCtx, topic)
	if err != nil {
		log.Printf("⚠️  [FACTUAL] Lookup failed for %q: %v", topic, err)
		p.learning.Enqueue(models.LearnTopic, topic, queue.PriorityFor(models.LearnTopic, topic))
		reasoning = append(reasoning,
			fmt.Sprintf("encyclopedia lookup failed (%v)", err),
			"queued for background learning")
		return &models.PathwayResult{
			Pathway:    models.PathwayFactual,
			Confidence: 0.25,
			Answer:     fmt.Sprintf("I don't know much about %q yet, but I've queued it up to learn.", topic),
			Data:       map[string]any{"topic": topic, "queued": true},
			Reasoning:  reasoning,
		}
	}

	p.store.Upsert(ctx, models.KnowledgeEntry{
		Kind:       models.KindFact,
		Key:        topic,
		Value:      result.Summary,
		URL:        result.URL,
		Source:     models.SourceLearned,
		Confidence: 0.8,
	})
	reasoning = append(reasoning, fmt.Sprintf("learned %q from encyclopedia lookup", result.Title))

	return &models.PathwayResult{
		Pathway:    models.PathwayFactual,
		Confidence: 0.8,
		Answer:     result.Summary,
		Data:       map[string]any{"topic": topic, "title": result.Title, "url": result.URL},
		Reasoning:  reasoning,
	}
}

func extractTopic(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	msg = strings.TrimRight(msg, "?!. ")

	for _, re := range topicPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			topic := strings.TrimSpace(m[1])
			topic = strings.TrimPrefix(topic, "the ")
			topic = strings.TrimPrefix(topic, "a ")
			topic = strings.TrimPrefix(topic, "an ")
			if topic != "" && !isNumeric(topic) {
				return topic
			}
		}
	}
	return ""
}
