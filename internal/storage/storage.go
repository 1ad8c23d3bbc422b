// Package storage defines the persistence collaborator for the knowledge
// store. The pipeline never assumes a specific medium; anything that can
// load and save a namespace of entries will do.
package storage

import (
	"context"

	"synapse/internal/models"
)

// Storage loads and saves knowledge entries per namespace. A namespace is
// the string form of an entry kind ("vocabulary", "fact", ...).
type Storage interface {
	Load(ctx context.Context, namespace string) ([]models.KnowledgeEntry, error)
	Save(ctx context.Context, namespace string, entries []models.KnowledgeEntry) error
}
