package pipeline

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"synapse/internal/knowledge"
	"synapse/internal/models"
)

var (
	greetingRe = regexp.MustCompile(`^(hi|hello|hey|good (morning|afternoon|evening))\b`)
	thanksRe   = regexp.MustCompile(`^(thanks|thank you|thx)\b`)
	farewellRe = regexp.MustCompile(`^(bye|goodbye|see you|good night)\b`)
)

// Deterministic fallback acknowledgments, picked by message hash so the
// same input always yields the same reply.
var acknowledgments = []string{
	"I'm not sure I follow — could you rephrase that?",
	"Interesting. Tell me more.",
	"I see. What would you like to know?",
	"Let me think about that. Could you give me more detail?",
}

// ConversationalProcessor is the fallback pathway. It never fails, so the
// pipeline always has at least one candidate result.
type ConversationalProcessor struct {
	store *knowledge.Store
}

// NewConversationalProcessor creates the conversational pathway.
func NewConversationalProcessor(store *knowledge.Store) *ConversationalProcessor {
	return &ConversationalProcessor{store: store}
}

// Name implements Processor.
func (p *ConversationalProcessor) Name() models.Pathway { return models.PathwayConversational }

// Process returns a templated acknowledgment or greeting, personalized
// with the stored name when one exists.
func (p *ConversationalProcessor) Process(ctx context.Context, message string, activation float64) *models.PathwayResult {
	msg := strings.ToLower(strings.TrimSpace(message))

	var answer string
	confidence := 0.4
	template := "acknowledgment"

	switch {
	case greetingRe.MatchString(msg):
		answer = fmt.Sprintf("Hello%s! How can I help you today?", p.namePart())
		confidence = 0.6
		template = "greeting"
	case thanksRe.MatchString(msg):
		answer = fmt.Sprintf("You're welcome%s!", p.namePart())
		confidence = 0.6
		template = "thanks"
	case farewellRe.MatchString(msg):
		answer = fmt.Sprintf("Goodbye%s! Talk soon.", p.namePart())
		confidence = 0.6
		template = "farewell"
	default:
		h := fnv.New32a()
		h.Write([]byte(msg))
		answer = acknowledgments[int(h.Sum32())%len(acknowledgments)]
	}

	return &models.PathwayResult{
		Pathway:    models.PathwayConversational,
		Confidence: confidence,
		Answer:     answer,
		Data:       map[string]any{"template": template},
		Reasoning:  []string{fmt.Sprintf("conversational fallback, %s template", template)},
	}
}

// namePart returns ", <Name>" when a name is stored, else "".
func (p *ConversationalProcessor) namePart() string {
	entry, err := p.store.Get(models.KindPersonal, "name")
	if err != nil {
		return ""
	}
	return ", " + titleCase(entry.Value)
}
