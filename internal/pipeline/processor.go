// Package pipeline implements the cognitive message pipeline: input
// classification, the six pathway processors, confidence-weighted
// synthesis and the orchestrator that runs one message at a time.
package pipeline

import (
	"context"

	"synapse/internal/lookup"
	"synapse/internal/models"
)

// Processor is one response pathway. Process returns nil when the pathway
// found nothing relevant; it must not panic outward — internal failures
// are downgraded to a low-confidence result with explanatory reasoning.
type Processor interface {
	Name() models.Pathway
	Process(ctx context.Context, message string, activation float64) *models.PathwayResult
}

// Lookup is the slice of the external lookup collaborator the pathways
// consume. Implemented by lookup.Client.
type Lookup interface {
	LookupWord(ctx context.Context, word string) (*lookup.WordResult, error)
	LookupTopic(ctx context.Context, topic string) (*lookup.TopicResult, error)
}
