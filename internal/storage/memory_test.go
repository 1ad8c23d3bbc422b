package storage

import (
	"context"
	"testing"

	"synapse/internal/models"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	entries := []models.KnowledgeEntry{
		{Kind: models.KindFact, Key: "a", Value: "one", Source: models.SourceSeed, Confidence: 0.9},
		{Kind: models.KindFact, Key: "b", Value: "two", Source: models.SourceLearned, Confidence: 0.8},
	}
	if err := s.Save(ctx, "fact", entries); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx, "fact")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(loaded))
	}

	// Saving replaces the namespace wholesale.
	if err := s.Save(ctx, "fact", entries[:1]); err != nil {
		t.Fatal(err)
	}
	loaded, _ = s.Load(ctx, "fact")
	if len(loaded) != 1 {
		t.Errorf("loaded %d entries after overwrite, want 1", len(loaded))
	}

	// Unknown namespaces load empty, not as an error.
	loaded, err = s.Load(ctx, "unknown")
	if err != nil || len(loaded) != 0 {
		t.Errorf("Load(unknown) = %v, %v; want empty, nil", loaded, err)
	}
}
