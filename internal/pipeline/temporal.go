package pipeline

import (
	"context"
	"fmt"
	"strings"

	"synapse/internal/models"
)

// TemporalProcessor answers time and date questions from the injected
// clock. It always succeeds when activated.
type TemporalProcessor struct {
	clock Clock
}

// NewTemporalProcessor creates the temporal pathway.
func NewTemporalProcessor(clock Clock) *TemporalProcessor {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TemporalProcessor{clock: clock}
}

// Name implements Processor.
func (p *TemporalProcessor) Name() models.Pathway { return models.PathwayTemporal }

// Process formats the current instant according to which temporal noun
// appeared in the message. Checked in order: time, day, date, month, year.
func (p *TemporalProcessor) Process(ctx context.Context, message string, activation float64) *models.PathwayResult {
	msg := strings.ToLower(message)
	now := p.clock.Now()

	var noun, answer string
	switch {
	case strings.Contains(msg, "time") || strings.Contains(msg, "clock"):
		noun = "time"
		answer = fmt.Sprintf("It's %s.", now.Format("3:04 PM"))
	case strings.Contains(msg, "day") || strings.Contains(msg, "today"):
		noun = "day"
		answer = fmt.Sprintf("Today is %s.", now.Format("Monday"))
	case strings.Contains(msg, "date"):
		noun = "date"
		answer = fmt.Sprintf("Today's date is %s.", now.Format("January 2, 2006"))
	case strings.Contains(msg, "month"):
		noun = "month"
		answer = fmt.Sprintf("It's %s.", now.Format("January"))
	case strings.Contains(msg, "year"):
		noun = "year"
		answer = fmt.Sprintf("The year is %s.", now.Format("2006"))
	default:
		noun = "now"
		answer = fmt.Sprintf("It's %s on %s.", now.Format("3:04 PM"), now.Format("Monday, January 2, 2006"))
	}

	return &models.PathwayResult{
		Pathway:    models.PathwayTemporal,
		Confidence: 0.95,
		Answer:     answer,
		Data:       map[string]any{"noun": noun, "instant": now},
		Reasoning:  []string{fmt.Sprintf("temporal noun %q, formatted from runtime clock", noun)},
	}
}
