package storage

import (
	"context"
	"sync"

	"synapse/internal/models"
)

// MemoryStorage is an in-memory Storage implementation. Used in tests and
// as the degraded fallback when no database is reachable.
type MemoryStorage struct {
	mu         sync.RWMutex
	namespaces map[string][]models.KnowledgeEntry
}

// NewMemoryStorage creates an empty in-memory storage collaborator.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{namespaces: make(map[string][]models.KnowledgeEntry)}
}

// Load returns a copy of the namespace contents.
func (m *MemoryStorage) Load(_ context.Context, namespace string) ([]models.KnowledgeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.namespaces[namespace]
	out := make([]models.KnowledgeEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Save replaces the namespace contents.
func (m *MemoryStorage) Save(_ context.Context, namespace string, entries []models.KnowledgeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]models.KnowledgeEntry, len(entries))
	copy(stored, entries)
	m.namespaces[namespace] = stored
	return nil
}
