package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"synapse/internal/models"
)

const seedYAML = `vocabulary:
  - key: Zephyr
    value: a gentle breeze
    part_of_speech: noun
facts:
  - key: largest planet
    value: Jupiter is the largest planet in the solar system.
    confidence: 0.95
`

func writeSeedDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seeds.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadSeeds(t *testing.T) {
	s := newStore()
	dir := writeSeedDir(t, seedYAML)

	loaded, err := s.LoadSeeds(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadSeeds: %v", err)
	}
	if loaded != 2 {
		t.Errorf("loaded = %d, want 2", loaded)
	}

	word, err := s.Get(models.KindVocabulary, "zephyr")
	if err != nil {
		t.Fatalf("seeded word missing: %v", err)
	}
	if word.Source != models.SourceSeed {
		t.Errorf("source = %s, want seed", word.Source)
	}
	if word.Confidence != 0.9 {
		t.Errorf("default confidence = %v, want 0.9", word.Confidence)
	}

	fact, err := s.Get(models.KindFact, "largest planet")
	if err != nil {
		t.Fatalf("seeded fact missing: %v", err)
	}
	if fact.Confidence != 0.95 {
		t.Errorf("explicit confidence = %v, want 0.95", fact.Confidence)
	}
}

func TestReseedDoesNotOverrideLearned(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	dir := writeSeedDir(t, seedYAML)

	if _, err := s.LoadSeeds(ctx, dir); err != nil {
		t.Fatal(err)
	}

	// The word is then learned with a fresher definition.
	s.Upsert(ctx, models.KnowledgeEntry{
		Kind: models.KindVocabulary, Key: "zephyr",
		Value: "learned definition", Source: models.SourceLearned, Confidence: 0.8,
	})

	// Reloading seeds must not clobber the learned entry.
	if _, err := s.LoadSeeds(ctx, dir); err != nil {
		t.Fatal(err)
	}
	entry, err := s.Get(models.KindVocabulary, "zephyr")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Source != models.SourceLearned || entry.Value != "learned definition" {
		t.Errorf("reseed clobbered the learned entry: %+v", entry)
	}
}

func TestLoadSeedsMissingDir(t *testing.T) {
	s := newStore()
	if _, err := s.LoadSeeds(context.Background(), "does-not-exist"); err == nil {
		t.Error("LoadSeeds on a missing directory should error")
	}
}
