package pipeline

import (
	"context"
	"strings"
	"testing"

	"synapse/internal/models"
)

func TestConversationalGreeting(t *testing.T) {
	store := newTestStore()
	store.Upsert(context.Background(), models.KnowledgeEntry{
		Kind:       models.KindPersonal,
		Key:        "name",
		Value:      "sam",
		Source:     models.SourceLearned,
		Confidence: 0.95,
	})
	p := NewConversationalProcessor(store)

	result := p.Process(context.Background(), "hello!", 0.8)
	if result == nil {
		t.Fatal("Process returned nil")
	}
	if result.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6 for a greeting", result.Confidence)
	}
	if !strings.Contains(result.Answer, "Sam") {
		t.Errorf("greeting %q should use the stored name", result.Answer)
	}
}

func TestConversationalNeverNil(t *testing.T) {
	p := NewConversationalProcessor(newTestStore())

	for _, message := range []string{"", "xyzzy", "thanks", "bye", "???"} {
		if result := p.Process(context.Background(), message, 0.5); result == nil {
			t.Errorf("Process(%q) = nil; the fallback pathway must always answer", message)
		}
	}
}

func TestConversationalFallbackDeterministic(t *testing.T) {
	p := NewConversationalProcessor(newTestStore())

	first := p.Process(context.Background(), "something unclassifiable", 0.5)
	for i := 0; i < 20; i++ {
		again := p.Process(context.Background(), "something unclassifiable", 0.5)
		if again.Answer != first.Answer {
			t.Fatalf("run %d: answer %q differs from first run %q", i, again.Answer, first.Answer)
		}
	}
	if first.Confidence != 0.4 {
		t.Errorf("fallback confidence = %v, want 0.4", first.Confidence)
	}
}
