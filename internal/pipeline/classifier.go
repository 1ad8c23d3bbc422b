package pipeline

import (
	"regexp"
	"strings"

	"synapse/internal/models"
)

// Activation constants. A matched predicate raises the pathway's
// activation to its weight; it never lowers one already set higher.
const (
	activationStrong   = 0.9
	activationMedium   = 0.85
	activationWeak     = 0.7
	activationBaseline = 0.5 // conversational floor: a result always exists
)

// classifierRule is one boolean predicate over the lowercased message.
// The rule table is evaluated in order; order is part of the contract.
type classifierRule struct {
	pathway models.Pathway
	weight  float64
	re      *regexp.Regexp
}

var classifierRules = []classifierRule{
	// Arithmetic: digits joined by an operator, or spelled-out operations.
	{models.PathwayArithmetic, activationStrong, regexp.MustCompile(`\d\s*[+\-*×x/÷^]\s*\d`)},
	{models.PathwayArithmetic, activationStrong, regexp.MustCompile(`\d+\s+(plus|minus|times|multiplied by|divided by|over|to the power of)\s+\d+`)},
	{models.PathwayArithmetic, activationMedium, regexp.MustCompile(`(square root|sqrt)\s*(of|\()?\s*-?\d`)},

	// Vocabulary: definition phrasing.
	{models.PathwayVocabulary, activationStrong, regexp.MustCompile(`\b(define|definition of|meaning of)\b`)},
	{models.PathwayVocabulary, activationStrong, regexp.MustCompile(`what does \w+ mean`)},
	{models.PathwayVocabulary, activationWeak, regexp.MustCompile(`what('s| is) (a|an|the)?\s*\w+\??$`)},

	// Personal memory: first-person statements and recall queries.
	{models.PathwayPersonal, activationStrong, regexp.MustCompile(`\b(my name is|i'?m called|call me|i live in|i work as|my job is|i am \d+ years? old|i'?m \d+ years? old|i have an? )`)},
	{models.PathwayPersonal, activationStrong, regexp.MustCompile(`(what('s| is) my |what do you (remember|know) about me|who am i)`)},

	// Temporal: time and date vocabulary.
	{models.PathwayTemporal, activationMedium, regexp.MustCompile(`\b(time|date|day|today|month|year|o'?clock)\b`)},

	// Factual knowledge: interrogatives and "tell me about".
	{models.PathwayFactual, activationStrong, regexp.MustCompile(`\btell me about\b`)},
	{models.PathwayFactual, activationWeak, regexp.MustCompile(`^(who|what|where|when|why|how)\b`)},

	// Conversational boosts beyond the baseline.
	{models.PathwayConversational, 0.8, regexp.MustCompile(`^(hi|hello|hey|good (morning|afternoon|evening)|thanks|thank you|bye|goodbye)\b`)},
}

// Classifier turns a raw message into per-pathway activations.
type Classifier struct{}

// NewClassifier creates the classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// Classify evaluates the rule table and returns an activation per pathway.
// Activations are independent: several pathways may fire for one message.
// Classification never errors; the worst case is all pathways at baseline.
func (c *Classifier) Classify(message string) models.ActivationMap {
	msg := strings.ToLower(strings.TrimSpace(message))

	activation := models.ActivationMap{
		models.PathwayConversational: activationBaseline,
	}
	for _, pathway := range models.Pathways {
		if _, ok := activation[pathway]; !ok {
			activation[pathway] = 0
		}
	}

	for _, rule := range classifierRules {
		if rule.re.MatchString(msg) && rule.weight > activation[rule.pathway] {
			activation[rule.pathway] = rule.weight
		}
	}

	return activation
}
