package models

import (
	"strings"
	"time"
)

// EntryKind namespaces knowledge entries by what they describe.
type EntryKind string

const (
	KindVocabulary EntryKind = "vocabulary"
	KindArithmetic EntryKind = "arithmetic-concept"
	KindFact       EntryKind = "fact"
	KindPersonal   EntryKind = "personal-info"
	KindCoding     EntryKind = "coding-note"
)

// EntryKinds lists every kind in persistence order.
var EntryKinds = []EntryKind{KindVocabulary, KindArithmetic, KindFact, KindPersonal, KindCoding}

// ValidKind reports whether kind names a known entry kind.
func ValidKind(kind EntryKind) bool {
	for _, k := range EntryKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// EntrySource records how an entry came to exist.
type EntrySource string

const (
	SourceSeed       EntrySource = "seed"
	SourceLearned    EntrySource = "learned"
	SourceCalculated EntrySource = "calculated"
	SourceManual     EntrySource = "manual"
)

// KnowledgeEntry is a single stored piece of knowledge. At most one live
// entry exists per (Kind, Key); writes are upserts.
type KnowledgeEntry struct {
	Kind         EntryKind   `json:"kind"`
	Key          string      `json:"key"`
	Value        string      `json:"value"`
	PartOfSpeech string      `json:"part_of_speech,omitempty"` // vocabulary
	Examples     []string    `json:"examples,omitempty"`       // vocabulary
	Formula      string      `json:"formula,omitempty"`        // arithmetic-concept
	URL          string      `json:"url,omitempty"`            // fact provenance
	Importance   float64     `json:"importance,omitempty"`     // personal-info weight
	Source       EntrySource `json:"source"`
	Confidence   float64     `json:"confidence"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NormalizeKey lowercases and strips surrounding punctuation so that
// "Hello!" and "hello" address the same entry.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Trim(key, ".,!?;:\"'()[]{}")
}
