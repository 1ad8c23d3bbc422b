package pipeline

import (
	"fmt"
	"time"

	"synapse/internal/models"
)

// pathwayRank fixes the tie-break order: arithmetic > vocabulary >
// personal-memory > factual-knowledge > temporal > conversational.
var pathwayRank = map[models.Pathway]int{
	models.PathwayArithmetic:     0,
	models.PathwayVocabulary:     1,
	models.PathwayPersonal:       2,
	models.PathwayFactual:        3,
	models.PathwayTemporal:       4,
	models.PathwayConversational: 5,
}

// Synthesizer selects one winner among the candidate pathway results.
type Synthesizer struct{}

// NewSynthesizer creates the synthesizer.
func NewSynthesizer() *Synthesizer { return &Synthesizer{} }

// Synthesize picks the winning candidate by confidence × activation and
// assembles the final response. Deterministic: equal scores fall back to
// the fixed pathway priority order.
func (s *Synthesizer) Synthesize(results []*models.PathwayResult, activation models.ActivationMap) *models.FinalResponse {
	candidates := make([]*models.PathwayResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, r)
		}
	}

	if len(candidates) == 0 {
		// The conversational pathway always produces a result, so this is
		// a programming error rather than an expected state.
		return &models.FinalResponse{
			Text:       "I wasn't able to come up with a response.",
			Pathway:    models.PathwayConversational,
			Confidence: 0.1,
			Reasoning:  []string{"no pathway produced a candidate result"},
			Timestamp:  time.Now(),
		}
	}

	if len(candidates) == 1 {
		return s.respond(candidates[0], candidates, activation)
	}

	winner := candidates[0]
	winnerScore := score(winner, activation)
	for _, candidate := range candidates[1:] {
		cs := score(candidate, activation)
		switch {
		case cs > winnerScore:
			winner, winnerScore = candidate, cs
		case cs == winnerScore && pathwayRank[candidate.Pathway] < pathwayRank[winner.Pathway]:
			winner = candidate
		}
	}

	return s.respond(winner, candidates, activation)
}

func score(r *models.PathwayResult, activation models.ActivationMap) float64 {
	return r.Confidence * activation[r.Pathway]
}

// respond builds the final response: the winner's payload plus a merged
// reasoning trail noting which pathways were considered and discarded.
func (s *Synthesizer) respond(winner *models.PathwayResult, candidates []*models.PathwayResult, activation models.ActivationMap) *models.FinalResponse {
	reasoning := make([]string, 0, len(winner.Reasoning)+len(candidates))
	reasoning = append(reasoning, winner.Reasoning...)
	reasoning = append(reasoning, fmt.Sprintf("synthesis: selected %s (score %.2f)",
		winner.Pathway, score(winner, activation)))
	for _, candidate := range candidates {
		if candidate == winner {
			continue
		}
		reasoning = append(reasoning, fmt.Sprintf("synthesis: considered %s (score %.2f), discarded",
			candidate.Pathway, score(candidate, activation)))
	}

	return &models.FinalResponse{
		Text:       winner.Answer,
		Pathway:    winner.Pathway,
		Confidence: winner.Confidence,
		Data:       winner.Data,
		Reasoning:  reasoning,
		Timestamp:  time.Now(),
	}
}
