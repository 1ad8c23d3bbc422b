package models

import "time"

// Pathway identifies one of the six response strategies.
type Pathway string

const (
	PathwayArithmetic     Pathway = "arithmetic"
	PathwayVocabulary     Pathway = "vocabulary"
	PathwayPersonal       Pathway = "personal-memory"
	PathwayTemporal       Pathway = "temporal"
	PathwayFactual        Pathway = "factual-knowledge"
	PathwayConversational Pathway = "conversational"
)

// Pathways lists every pathway in synthesis tie-break order
// (highest priority first).
var Pathways = []Pathway{
	PathwayArithmetic,
	PathwayVocabulary,
	PathwayPersonal,
	PathwayFactual,
	PathwayTemporal,
	PathwayConversational,
}

// ActivationMap scores how strongly a message suggests each pathway, 0..1.
type ActivationMap map[Pathway]float64

// PathwayResult is one processor's candidate answer. Confidence reflects
// the processor's own certainty, independent of activation.
type PathwayResult struct {
	Pathway    Pathway        `json:"pathway"`
	Confidence float64        `json:"confidence"`
	Answer     string         `json:"answer"`
	Data       map[string]any `json:"data,omitempty"`
	Reasoning  []string       `json:"reasoning"`
}

// FinalResponse is the synthesized reply for one incoming message.
type FinalResponse struct {
	Text       string         `json:"text"`
	Pathway    Pathway        `json:"pathway"`
	Confidence float64        `json:"confidence"`
	Data       map[string]any `json:"data,omitempty"`
	Reasoning  []string       `json:"reasoning"`
	Timestamp  time.Time      `json:"timestamp"`
}
