package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"synapse/internal/knowledge"
	"synapse/internal/logging"
	"synapse/internal/models"
)

// Recorder receives pipeline metrics. Implemented by services.Metrics;
// optional.
type Recorder interface {
	RecordMessage(pathway string, duration time.Duration)
}

// Pipeline sequences classification, pathway execution and synthesis for
// one message at a time. A mutex serializes messages, reproducing the
// source's no-overlap guarantee: a new message waits until the current one
// completes.
type Pipeline struct {
	classifier    *Classifier
	processors    []Processor
	synthesizer   *Synthesizer
	store         *knowledge.Store
	conversation  *ConversationLog
	minActivation float64
	metrics       Recorder

	mu sync.Mutex
}

// Options configures the pipeline.
type Options struct {
	Store           *knowledge.Store
	Processors      []Processor
	ConversationCap int
	MinActivation   float64
	Metrics         Recorder
}

// New assembles the pipeline. Processors run in the given order; their
// order only affects the reasoning trail, not the winner.
func New(opts Options) *Pipeline {
	if opts.MinActivation <= 0 {
		opts.MinActivation = 0.1
	}
	return &Pipeline{
		classifier:    NewClassifier(),
		processors:    opts.Processors,
		synthesizer:   NewSynthesizer(),
		store:         opts.Store,
		conversation:  NewConversationLog(opts.ConversationCap),
		minActivation: opts.MinActivation,
		metrics:       opts.Metrics,
	}
}

// Conversation exposes the bounded turn log.
func (p *Pipeline) Conversation() *ConversationLog { return p.conversation }

// HandleMessage is the single externally visible pipeline operation:
// classify, run every sufficiently activated pathway, synthesize, record
// the turns. Never returns an error; the worst outcome is a degraded,
// low-confidence response.
func (p *Pipeline) HandleMessage(ctx context.Context, text string) *models.FinalResponse {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	messageID := uuid.NewString()
	text = strings.TrimSpace(text)

	activation := p.classifier.Classify(text)

	results := make([]*models.PathwayResult, 0, len(p.processors))
	for _, processor := range p.processors {
		act := activation[processor.Name()]
		if act < p.minActivation {
			continue
		}
		if result := p.runSafely(ctx, processor, text, act); result != nil {
			results = append(results, result)
		}
	}

	response := p.synthesizer.Synthesize(results, activation)

	p.conversation.Append("user", text, nil)
	confidence := response.Confidence
	p.conversation.Append("assistant", response.Text, &confidence)

	duration := time.Since(start)
	log.Printf("🧠 [PIPELINE] %s won (confidence %.2f, %d candidates, %v)",
		response.Pathway, response.Confidence, len(results), duration)
	logging.WithPipeline(messageID, string(response.Pathway)).Debug("message synthesized",
		"confidence", response.Confidence,
		"candidates", len(results),
		"duration_ms", duration.Milliseconds())
	if p.metrics != nil {
		p.metrics.RecordMessage(string(response.Pathway), duration)
	}

	return response
}

// runSafely executes one processor, converting a panic into a
// low-confidence result so no pathway failure escapes the pipeline.
func (p *Pipeline) runSafely(ctx context.Context, processor Processor, text string, activation float64) (result *models.PathwayResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [PIPELINE] %s pathway panicked: %v", processor.Name(), r)
			result = &models.PathwayResult{
				Pathway:    processor.Name(),
				Confidence: 0.1,
				Answer:     "Something went wrong while I was thinking about that.",
				Reasoning:  []string{fmt.Sprintf("internal failure: %v", r)},
			}
		}
	}()
	return processor.Process(ctx, text, activation)
}
