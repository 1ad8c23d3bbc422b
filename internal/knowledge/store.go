// Package knowledge holds the typed knowledge store the pathway processors
// read and write: vocabulary, arithmetic concepts, facts, personal info and
// coding notes, each with provenance and confidence.
package knowledge

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"synapse/internal/models"
	"synapse/internal/storage"
)

// ErrNotFound is returned by Get when no entry exists for a (kind, key).
var ErrNotFound = errors.New("knowledge entry not found")

// EventPublisher receives a notification for every learned or calculated
// upsert. Optional; wired to Redis pub/sub when configured.
type EventPublisher interface {
	PublishLearned(ctx context.Context, entry models.KnowledgeEntry)
}

// Store is the in-memory knowledge store with write-through persistence.
// Persistence failures are logged and swallowed: the pipeline keeps
// answering from memory even when the database is down.
type Store struct {
	mu      sync.RWMutex
	entries map[models.EntryKind]map[string]models.KnowledgeEntry
	storage storage.Storage
	events  EventPublisher
}

// NewStore creates a store backed by the given storage collaborator.
func NewStore(st storage.Storage) *Store {
	entries := make(map[models.EntryKind]map[string]models.KnowledgeEntry, len(models.EntryKinds))
	for _, kind := range models.EntryKinds {
		entries[kind] = make(map[string]models.KnowledgeEntry)
	}
	return &Store{entries: entries, storage: st}
}

// SetEventPublisher attaches an optional publisher for learned-knowledge
// events. Must be called before the pipeline starts.
func (s *Store) SetEventPublisher(events EventPublisher) {
	s.events = events
}

// LoadAll hydrates every namespace from storage. Called once at startup.
func (s *Store) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, kind := range models.EntryKinds {
		entries, err := s.storage.Load(ctx, string(kind))
		if err != nil {
			log.Printf("⚠️  [KNOWLEDGE] Failed to load namespace %s: %v", kind, err)
			continue
		}
		for _, entry := range entries {
			entry.Key = models.NormalizeKey(entry.Key)
			s.entries[kind][entry.Key] = entry
		}
		total += len(entries)
	}

	log.Printf("✅ [KNOWLEDGE] Loaded %d entries across %d namespaces", total, len(models.EntryKinds))
	return nil
}

// Get returns the entry for (kind, key) or ErrNotFound.
func (s *Store) Get(kind models.EntryKind, key string) (models.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[kind][models.NormalizeKey(key)]
	if !ok {
		return models.KnowledgeEntry{}, ErrNotFound
	}
	return entry, nil
}

// Has reports whether an entry exists for (kind, key).
func (s *Store) Has(kind models.EntryKind, key string) bool {
	_, err := s.Get(kind, key)
	return err == nil
}

// Upsert writes an entry, replacing any previous entry with the same
// (kind, key), and persists the namespace. The entry's key is normalized
// and its timestamp stamped here.
func (s *Store) Upsert(ctx context.Context, entry models.KnowledgeEntry) models.KnowledgeEntry {
	entry.Key = models.NormalizeKey(entry.Key)
	entry.UpdatedAt = time.Now()

	s.mu.Lock()
	kindMap, ok := s.entries[entry.Kind]
	if !ok {
		kindMap = make(map[string]models.KnowledgeEntry)
		s.entries[entry.Kind] = kindMap
	}
	_, replaced := kindMap[entry.Key]
	kindMap[entry.Key] = entry
	s.mu.Unlock()

	if replaced {
		log.Printf("🔄 [KNOWLEDGE] Updated %s/%s (source=%s, confidence=%.2f)",
			entry.Kind, entry.Key, entry.Source, entry.Confidence)
	} else {
		log.Printf("✅ [KNOWLEDGE] Stored %s/%s (source=%s, confidence=%.2f)",
			entry.Kind, entry.Key, entry.Source, entry.Confidence)
	}

	s.persist(ctx, entry.Kind)

	if s.events != nil && (entry.Source == models.SourceLearned || entry.Source == models.SourceCalculated) {
		s.events.PublishLearned(ctx, entry)
	}

	return entry
}

// Remove deletes the entry for (kind, key). Returns ErrNotFound when the
// entry does not exist.
func (s *Store) Remove(ctx context.Context, kind models.EntryKind, key string) error {
	key = models.NormalizeKey(key)

	s.mu.Lock()
	_, ok := s.entries[kind][key]
	if ok {
		delete(s.entries[kind], key)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	log.Printf("🗑️  [KNOWLEDGE] Removed %s/%s", kind, key)
	s.persist(ctx, kind)
	return nil
}

// Clear wipes every namespace, in memory and in storage.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	for _, kind := range models.EntryKinds {
		s.entries[kind] = make(map[string]models.KnowledgeEntry)
	}
	s.mu.Unlock()

	log.Println("🗑️  [KNOWLEDGE] Cleared all namespaces")
	for _, kind := range models.EntryKinds {
		s.persist(ctx, kind)
	}
}

// All returns every entry of a kind, sorted by key for stable output.
func (s *Store) All(kind models.EntryKind) []models.KnowledgeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.KnowledgeEntry, 0, len(s.entries[kind]))
	for _, entry := range s.entries[kind] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Count returns the total number of entries across all namespaces.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, kindMap := range s.entries {
		total += len(kindMap)
	}
	return total
}

// Stats returns per-kind entry counts.
func (s *Store) Stats() map[models.EntryKind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[models.EntryKind]int, len(s.entries))
	for kind, kindMap := range s.entries {
		stats[kind] = len(kindMap)
	}
	return stats
}

// PersistAll saves every namespace. Used by the snapshot job and during
// shutdown.
func (s *Store) PersistAll(ctx context.Context) {
	for _, kind := range models.EntryKinds {
		s.persist(ctx, kind)
	}
}

// persist writes one namespace through to storage, swallowing failures.
func (s *Store) persist(ctx context.Context, kind models.EntryKind) {
	entries := s.All(kind)
	if err := s.storage.Save(ctx, string(kind), entries); err != nil {
		log.Printf("⚠️  [KNOWLEDGE] Failed to persist namespace %s: %v", kind, err)
	}
}
