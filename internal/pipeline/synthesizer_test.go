package pipeline

import (
	"strings"
	"testing"

	"synapse/internal/models"
)

func TestSynthesizeArgMax(t *testing.T) {
	s := NewSynthesizer()

	activation := models.ActivationMap{
		models.PathwayArithmetic:     0.9,
		models.PathwayConversational: 0.5,
	}
	results := []*models.PathwayResult{
		{Pathway: models.PathwayConversational, Confidence: 0.4, Answer: "chat"},
		{Pathway: models.PathwayArithmetic, Confidence: 0.95, Answer: "math"},
	}

	response := s.Synthesize(results, activation)
	if response.Pathway != models.PathwayArithmetic {
		t.Errorf("winner = %s, want %s", response.Pathway, models.PathwayArithmetic)
	}
	if response.Text != "math" {
		t.Errorf("text = %q, want the winner's answer", response.Text)
	}
}

func TestSynthesizeTieBreakByPathwayOrder(t *testing.T) {
	s := NewSynthesizer()

	// Identical scores: the fixed priority order decides, regardless of the
	// order results arrive in.
	activation := models.ActivationMap{
		models.PathwayTemporal:   0.9,
		models.PathwayVocabulary: 0.9,
	}
	results := []*models.PathwayResult{
		{Pathway: models.PathwayTemporal, Confidence: 0.8, Answer: "clock"},
		{Pathway: models.PathwayVocabulary, Confidence: 0.8, Answer: "word"},
	}

	response := s.Synthesize(results, activation)
	if response.Pathway != models.PathwayVocabulary {
		t.Errorf("tie went to %s, want %s", response.Pathway, models.PathwayVocabulary)
	}
}

func TestSynthesizeDropsNils(t *testing.T) {
	s := NewSynthesizer()

	activation := models.ActivationMap{models.PathwayConversational: 0.5}
	results := []*models.PathwayResult{
		nil,
		{Pathway: models.PathwayConversational, Confidence: 0.4, Answer: "hi"},
		nil,
	}

	response := s.Synthesize(results, activation)
	if response.Pathway != models.PathwayConversational || response.Text != "hi" {
		t.Errorf("got %s %q, want the single non-nil candidate", response.Pathway, response.Text)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	s := NewSynthesizer()

	response := s.Synthesize(nil, models.ActivationMap{})
	if response == nil {
		t.Fatal("Synthesize(nil) returned nil, want a fallback response")
	}
	if response.Confidence >= 0.5 {
		t.Errorf("fallback confidence = %v, want a low value", response.Confidence)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := NewSynthesizer()

	activation := models.ActivationMap{
		models.PathwayArithmetic:     0.9,
		models.PathwayFactual:        0.7,
		models.PathwayConversational: 0.5,
	}
	results := []*models.PathwayResult{
		{Pathway: models.PathwayFactual, Confidence: 0.8, Answer: "fact"},
		{Pathway: models.PathwayArithmetic, Confidence: 0.62, Answer: "math"},
		{Pathway: models.PathwayConversational, Confidence: 0.4, Answer: "chat"},
	}

	first := s.Synthesize(results, activation)
	for i := 0; i < 100; i++ {
		again := s.Synthesize(results, activation)
		if again.Pathway != first.Pathway || again.Text != first.Text {
			t.Fatalf("run %d: got %s %q, first run gave %s %q",
				i, again.Pathway, again.Text, first.Pathway, first.Text)
		}
	}
}

func TestSynthesizeReasoningMentionsDiscarded(t *testing.T) {
	s := NewSynthesizer()

	activation := models.ActivationMap{
		models.PathwayArithmetic:     0.9,
		models.PathwayConversational: 0.5,
	}
	results := []*models.PathwayResult{
		{Pathway: models.PathwayArithmetic, Confidence: 0.95, Answer: "math", Reasoning: []string{"evaluated"}},
		{Pathway: models.PathwayConversational, Confidence: 0.4, Answer: "chat"},
	}

	response := s.Synthesize(results, activation)
	joined := strings.Join(response.Reasoning, "\n")
	if !strings.Contains(joined, "evaluated") {
		t.Error("winner's own reasoning missing from the trail")
	}
	if !strings.Contains(joined, "selected arithmetic") {
		t.Errorf("trail %q does not note the selection", joined)
	}
	if !strings.Contains(joined, "considered conversational") {
		t.Errorf("trail %q does not note the discarded candidate", joined)
	}
}
