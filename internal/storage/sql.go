package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"synapse/internal/database"
	"synapse/internal/models"
)

// SQLStorage persists knowledge entries in the knowledge_entries table.
// Save replaces the whole namespace inside a transaction so that the table
// always mirrors the in-memory store exactly.
type SQLStorage struct {
	db *database.DB
}

// NewSQLStorage creates a SQL-backed storage collaborator.
func NewSQLStorage(db *database.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

// Load reads every entry in a namespace.
func (s *SQLStorage) Load(ctx context.Context, namespace string) ([]models.KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM knowledge_entries WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query namespace %q: %w", namespace, err)
	}
	defer rows.Close()

	var entries []models.KnowledgeEntry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		var entry models.KnowledgeEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			// A corrupt row should not take the whole namespace down.
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate namespace %q: %w", namespace, err)
	}

	return entries, nil
}

// Save replaces the namespace with the given entries.
func (s *SQLStorage) Save(ctx context.Context, namespace string, entries []models.KnowledgeEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM knowledge_entries WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to clear namespace %q: %w", namespace, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO knowledge_entries (namespace, entry_key, payload, source, confidence, updated_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry %q: %w", entry.Key, err)
		}
		updated := entry.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		if _, err := stmt.ExecContext(ctx,
			namespace, entry.Key, payload, string(entry.Source),
			entry.Confidence, updated.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert entry %q: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit namespace %q: %w", namespace, err)
	}
	return nil
}
