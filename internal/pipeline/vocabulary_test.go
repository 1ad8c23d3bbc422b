package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"synapse/internal/lookup"
	"synapse/internal/models"
	"synapse/internal/queue"
)

// fakeLookup counts invocations and returns canned results.
type fakeLookup struct {
	wordCalls  int
	topicCalls int
	word       *lookup.WordResult
	topic      *lookup.TopicResult
	err        error
}

func (f *fakeLookup) LookupWord(ctx context.Context, word string) (*lookup.WordResult, error) {
	f.wordCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.word, nil
}

func (f *fakeLookup) LookupTopic(ctx context.Context, topic string) (*lookup.TopicResult, error) {
	f.topicCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.topic, nil
}

func TestVocabularyStoreFirst(t *testing.T) {
	store := newTestStore()
	store.Upsert(context.Background(), models.KnowledgeEntry{
		Kind:       models.KindVocabulary,
		Key:        "serendipity",
		Value:      "a happy accident",
		Source:     models.SourceSeed,
		Confidence: 0.95,
	})

	fake := &fakeLookup{err: errors.New("should not be called")}
	p := NewVocabularyProcessor(store, fake, queue.New(10), time.Second)

	result := p.Process(context.Background(), "define serendipity", 0.9)
	if result == nil {
		t.Fatal("Process returned nil for a stored word")
	}
	if fake.wordCalls != 0 {
		t.Errorf("stored word triggered %d external lookups, want 0", fake.wordCalls)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want the stored entry's 0.95", result.Confidence)
	}
	if !strings.Contains(result.Answer, "happy accident") {
		t.Errorf("answer %q missing the stored definition", result.Answer)
	}
}

func TestVocabularyLearnsFromLookup(t *testing.T) {
	store := newTestStore()
	fake := &fakeLookup{word: &lookup.WordResult{
		Word:         "ephemeral",
		Definition:   "lasting a very short time",
		PartOfSpeech: "adjective",
	}}
	p := NewVocabularyProcessor(store, fake, queue.New(10), time.Second)

	result := p.Process(context.Background(), "what does ephemeral mean", 0.9)
	if result == nil {
		t.Fatal("Process returned nil")
	}
	if fake.wordCalls != 1 {
		t.Errorf("lookup calls = %d, want 1", fake.wordCalls)
	}
	if result.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 for a learned word", result.Confidence)
	}

	entry, err := store.Get(models.KindVocabulary, "ephemeral")
	if err != nil {
		t.Fatalf("learned word was not stored: %v", err)
	}
	if entry.Source != models.SourceLearned {
		t.Errorf("source = %s, want %s", entry.Source, models.SourceLearned)
	}
}

func TestVocabularyQueuesOnFailure(t *testing.T) {
	store := newTestStore()
	q := queue.New(10)
	fake := &fakeLookup{err: errors.New("network down")}
	p := NewVocabularyProcessor(store, fake, q, time.Second)

	result := p.Process(context.Background(), "define sesquipedalian", 0.9)
	if result == nil {
		t.Fatal("Process returned nil")
	}
	if result.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2 for an unresolved word", result.Confidence)
	}
	if q.Len() != 1 {
		t.Fatalf("queue depth = %d, want 1", q.Len())
	}
	item, _ := q.Pop()
	if item.Kind != models.LearnWord || item.Target != "sesquipedalian" {
		t.Errorf("queued %s %q, want word \"sesquipedalian\"", item.Kind, item.Target)
	}
}

func TestExtractWord(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"define", "define serendipity", "serendipity"},
		{"definition of", "give me the definition of apogee", "apogee"},
		{"meaning of", "meaning of zephyr?", "zephyr"},
		{"what does mean", "What does Ubiquitous mean?", "ubiquitous"},
		{"what is trailing", "what is a quasar", "quasar"},
		{"numeric rejected", "define 42", ""},
		{"no pattern", "hello there", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractWord(tt.message); got != tt.want {
				t.Errorf("extractWord(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
