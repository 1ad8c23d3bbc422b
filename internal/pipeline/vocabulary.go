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

// wordPatterns extract the target word, most explicit phrasing first.
var wordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`define\s+(\w+)`),
	regexp.MustCompile(`definition of\s+(\w+)`),
	regexp.MustCompile(`meaning of\s+(\w+)`),
	regexp.MustCompile(`what does\s+(\w+)\s+mean`),
	regexp.MustCompile(`what(?:'s| is)\s+(?:a|an|the)?\s*(\w+)\s*\??$`),
}

// VocabularyProcessor answers word-definition questions: store first, then
// a bounded external dictionary lookup, then the learning queue.
type VocabularyProcessor struct {
	store         *knowledge.Store
	lookup        Lookup
	learning      *queue.LearningQueue
	lookupTimeout time.Duration
}

// NewVocabularyProcessor creates the vocabulary pathway.
func NewVocabularyProcessor(store *knowledge.Store, lk Lookup, learning *queue.LearningQueue, lookupTimeout time.Duration) *VocabularyProcessor {
	if lookupTimeout <= 0 {
		lookupTimeout = 2500 * time.Millisecond
	}
	return &VocabularyProcessor{store: store, lookup: lk, learning: learning, lookupTimeout: lookupTimeout}
}

// Name implements Processor.
func (p *VocabularyProcessor) Name() models.Pathway { return models.PathwayVocabulary }

// Process resolves the target word. The store is always consulted before
// the external collaborator; a stored word never triggers a lookup.
func (p *VocabularyProcessor) Process(ctx context.Context, message string, activation float64) *models.PathwayResult {
	word := extractWord(message)
	if word == "" {
		return nil
	}

	reasoning := []string{fmt.Sprintf("target word: %q", word)}

	if entry, err := p.store.Get(models.KindVocabulary, word); err == nil {
		reasoning = append(reasoning, fmt.Sprintf("found in knowledge store (source=%s)", entry.Source))
		return &models.PathwayResult{
			Pathway:    models.PathwayVocabulary,
			Confidence: entry.Confidence,
			Answer:     formatDefinition(entry),
			Data:       map[string]any{"word": word, "source": string(entry.Source)},
			Reasoning:  reasoning,
		}
	}
	reasoning = append(reasoning, "not in knowledge store, trying dictionary lookup")

	lookupCtx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	defer cancel()

	result, err := p.lookup.LookupWord(lookupCtx, word)
	if err != nil {
		log.Printf("⚠️  [VOCABULARY] Lookup failed for %q: %v", word, err)
		p.learning.Enqueue(models.LearnWord, word, queue.PriorityFor(models.LearnWord, word))
		reasoning = append(reasoning,
			fmt.Sprintf("dictionary lookup failed (%v)", err),
			"queued for background learning")
		return &models.PathwayResult{
			Pathway:    models.PathwayVocabulary,
			Confidence: 0.2,
			Answer:     fmt.Sprintf("I don't know %q yet, but I've queued it up to learn.", word),
			Data:       map[string]any{"word": word, "queued": true},
			Reasoning:  reasoning,
		}
	}

	entry := p.store.Upsert(ctx, models.KnowledgeEntry{
		Kind:         models.KindVocabulary,
		Key:          word,
		Value:        result.Definition,
		PartOfSpeech: result.PartOfSpeech,
		Examples:     result.Examples,
		Source:       models.SourceLearned,
		Confidence:   0.8,
	})
	reasoning = append(reasoning, "learned from dictionary lookup")

	return &models.PathwayResult{
		Pathway:    models.PathwayVocabulary,
		Confidence: 0.8,
		Answer:     formatDefinition(entry),
		Data:       map[string]any{"word": word, "source": string(models.SourceLearned)},
		Reasoning:  reasoning,
	}
}

func extractWord(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, re := range wordPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			word := models.NormalizeKey(m[1])
			if word == "" || isNumeric(word) {
				continue
			}
			return word
		}
	}
	return ""
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func formatDefinition(entry models.KnowledgeEntry) string {
	var b strings.Builder
	if entry.PartOfSpeech != "" {
		fmt.Fprintf(&b, "%s (%s): %s", entry.Key, entry.PartOfSpeech, entry.Value)
	} else {
		fmt.Fprintf(&b, "%s: %s", entry.Key, entry.Value)
	}
	if len(entry.Examples) > 0 {
		fmt.Fprintf(&b, " Example: %s", entry.Examples[0])
	}
	return b.String()
}
