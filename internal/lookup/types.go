// Package lookup implements the external lookup collaborator: best-effort
// word definitions and topic summaries fetched from public HTTP APIs.
// Callers impose their own timeouts via context; every miss or failure is
// reported as an error, never a panic.
package lookup

import (
	"context"
	"errors"
)

// ErrNotFound means the service answered but knows nothing about the target.
var ErrNotFound = errors.New("lookup target not found")

// WordResult is a normalized dictionary record.
type WordResult struct {
	Word         string   `json:"word"`
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"part_of_speech"`
	Examples     []string `json:"examples,omitempty"`
}

// TopicResult is a normalized encyclopedia summary.
type TopicResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// SecondaryCache is an optional shared cache behind the in-process one.
// Wired to Redis when configured.
type SecondaryCache interface {
	GetCached(ctx context.Context, key string) (string, bool)
	SetCached(ctx context.Context, key string, value string)
}
