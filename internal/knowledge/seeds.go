package knowledge

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"synapse/internal/models"
)

// seedFile is the on-disk shape of a seed YAML file. Each section maps to
// one entry kind.
type seedFile struct {
	Vocabulary []seedEntry `yaml:"vocabulary"`
	Arithmetic []seedEntry `yaml:"arithmetic"`
	Facts      []seedEntry `yaml:"facts"`
	Personal   []seedEntry `yaml:"personal"`
	Coding     []seedEntry `yaml:"coding"`
}

type seedEntry struct {
	Key          string   `yaml:"key"`
	Value        string   `yaml:"value"`
	PartOfSpeech string   `yaml:"part_of_speech"`
	Examples     []string `yaml:"examples"`
	Formula      string   `yaml:"formula"`
	URL          string   `yaml:"url"`
	Confidence   float64  `yaml:"confidence"`
}

// LoadSeeds reads every YAML file in dir and installs the entries with
// source=seed. Entries that were since learned, calculated or manually
// edited are left untouched; re-seeding only refreshes seed-sourced rows.
func (s *Store) LoadSeeds(ctx context.Context, dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read seeds directory: %w", err)
	}

	loaded := 0
	touched := make(map[models.EntryKind]bool)

	for _, file := range files {
		name := file.Name()
		if file.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("⚠️  [SEEDS] Failed to read %s: %v", name, err)
			continue
		}

		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			log.Printf("⚠️  [SEEDS] Failed to parse %s: %v", name, err)
			continue
		}

		sections := []struct {
			kind    models.EntryKind
			entries []seedEntry
		}{
			{models.KindVocabulary, sf.Vocabulary},
			{models.KindArithmetic, sf.Arithmetic},
			{models.KindFact, sf.Facts},
			{models.KindPersonal, sf.Personal},
			{models.KindCoding, sf.Coding},
		}

		for _, section := range sections {
			for _, se := range section.entries {
				if s.installSeed(section.kind, se) {
					loaded++
					touched[section.kind] = true
				}
			}
		}
	}

	for kind := range touched {
		s.persist(ctx, kind)
	}

	log.Printf("🌱 [SEEDS] Installed %d seed entries from %s", loaded, dir)
	return loaded, nil
}

// installSeed writes one seed entry unless a higher-provenance entry
// already owns the key. Returns whether the store changed.
func (s *Store) installSeed(kind models.EntryKind, se seedEntry) bool {
	key := models.NormalizeKey(se.Key)
	if key == "" || se.Value == "" {
		return false
	}

	confidence := se.Confidence
	if confidence == 0 {
		confidence = 0.9
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[kind][key]; ok && existing.Source != models.SourceSeed {
		return false
	}

	s.entries[kind][key] = models.KnowledgeEntry{
		Kind:         kind,
		Key:          key,
		Value:        se.Value,
		PartOfSpeech: se.PartOfSpeech,
		Examples:     se.Examples,
		Formula:      se.Formula,
		URL:          se.URL,
		Source:       models.SourceSeed,
		Confidence:   confidence,
		UpdatedAt:    time.Now(),
	}
	return true
}
