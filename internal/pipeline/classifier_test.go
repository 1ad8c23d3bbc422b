package pipeline

import (
	"testing"

	"synapse/internal/models"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		pathway models.Pathway
		want    float64
	}{
		{"symbol arithmetic", "what is 12 x 5", models.PathwayArithmetic, activationStrong},
		{"word arithmetic", "7 plus 3 please", models.PathwayArithmetic, activationStrong},
		{"square root", "sqrt of 16", models.PathwayArithmetic, activationMedium},
		{"define", "define serendipity", models.PathwayVocabulary, activationStrong},
		{"what does mean", "what does ephemeral mean", models.PathwayVocabulary, activationStrong},
		{"personal statement", "my name is sam", models.PathwayPersonal, activationStrong},
		{"personal recall", "what's my name", models.PathwayPersonal, activationStrong},
		{"temporal", "what time is it", models.PathwayTemporal, activationMedium},
		{"factual", "tell me about jupiter", models.PathwayFactual, activationStrong},
		{"interrogative", "who is nikola tesla", models.PathwayFactual, activationWeak},
		{"greeting boost", "hello there", models.PathwayConversational, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activation := c.Classify(tt.message)
			if got := activation[tt.pathway]; got != tt.want {
				t.Errorf("Classify(%q)[%s] = %v, want %v", tt.message, tt.pathway, got, tt.want)
			}
		})
	}
}

func TestClassifyConversationalBaseline(t *testing.T) {
	c := NewClassifier()

	// Whatever the message, the conversational pathway keeps a floor so a
	// candidate result always exists.
	for _, message := range []string{"", "what is 2 + 2", "xyzzy plugh", "tell me about go"} {
		activation := c.Classify(message)
		if activation[models.PathwayConversational] < activationBaseline {
			t.Errorf("Classify(%q): conversational activation %v below baseline %v",
				message, activation[models.PathwayConversational], activationBaseline)
		}
	}
}

func TestClassifyMultiplePathwaysFire(t *testing.T) {
	c := NewClassifier()

	// Interrogative phrasing plus digits activates both factual and
	// arithmetic; activations are independent, not mutually exclusive.
	activation := c.Classify("what is 12 x 5")
	if activation[models.PathwayArithmetic] != activationStrong {
		t.Errorf("arithmetic activation = %v, want %v", activation[models.PathwayArithmetic], activationStrong)
	}
	if activation[models.PathwayFactual] != activationWeak {
		t.Errorf("factual activation = %v, want %v", activation[models.PathwayFactual], activationWeak)
	}
}

func TestClassifyNeverLowers(t *testing.T) {
	c := NewClassifier()

	// "what is my name" matches both the strong recall rule and weaker
	// phrasing rules; the strong one must win regardless of table order.
	activation := c.Classify("what is my name")
	if activation[models.PathwayPersonal] != activationStrong {
		t.Errorf("personal activation = %v, want %v", activation[models.PathwayPersonal], activationStrong)
	}
}
