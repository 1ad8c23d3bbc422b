package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"synapse/internal/knowledge"
	"synapse/internal/models"
)

// extractionRule captures one personal fact. The table is ordered; name
// carries the highest importance weight.
type extractionRule struct {
	field      string
	re         *regexp.Regexp
	importance float64
}

var extractionRules = []extractionRule{
	{"name", regexp.MustCompile(`my name is (\w+)`), 1.0},
	{"name", regexp.MustCompile(`i'?m called (\w+)`), 1.0},
	{"name", regexp.MustCompile(`call me (\w+)`), 1.0},
	{"location", regexp.MustCompile(`i live in ([a-z][a-z .'-]*)`), 0.8},
	{"location", regexp.MustCompile(`i'?m from ([a-z][a-z .'-]*)`), 0.8},
	{"occupation", regexp.MustCompile(`i work as (?:a |an )?([a-z][a-z -]*)`), 0.7},
	{"occupation", regexp.MustCompile(`my job is (?:a |an )?([a-z][a-z -]*)`), 0.7},
	{"age", regexp.MustCompile(`i(?:'m| am) (\d{1,3}) years? old`), 0.6},
	{"possessions", regexp.MustCompile(`i have (?:a |an )?([a-z][a-z -]*)`), 0.4},
}

var personalQueries = []struct {
	field string
	re    *regexp.Regexp
}{
	{"name", regexp.MustCompile(`what(?:'s| is) my name|who am i`)},
	{"location", regexp.MustCompile(`where do i live|what(?:'s| is) my (?:location|city)`)},
	{"occupation", regexp.MustCompile(`what(?:'s| is) my (?:job|occupation)|what do i do for`)},
	{"age", regexp.MustCompile(`how old am i|what(?:'s| is) my age`)},
	{"", regexp.MustCompile(`what do you (?:remember|know) about me`)}, // all fields
}

// PersonalProcessor extracts personal facts into the knowledge store and
// answers recall queries from it.
type PersonalProcessor struct {
	store *knowledge.Store
}

// NewPersonalProcessor creates the personal-memory pathway.
func NewPersonalProcessor(store *knowledge.Store) *PersonalProcessor {
	return &PersonalProcessor{store: store}
}

// Name implements Processor.
func (p *PersonalProcessor) Name() models.Pathway { return models.PathwayPersonal }

// Process first runs the extraction rules, then the recall queries. A
// recall with nothing stored answers "nothing stored yet" at reduced
// confidence instead of failing.
func (p *PersonalProcessor) Process(ctx context.Context, message string, activation float64) *models.PathwayResult {
	msg := strings.ToLower(strings.TrimSpace(message))

	if result := p.extract(ctx, msg); result != nil {
		return result
	}
	return p.recall(msg)
}

// extract runs the ordered rule table and upserts every captured fact.
func (p *PersonalProcessor) extract(ctx context.Context, msg string) *models.PathwayResult {
	var captured []string
	seen := make(map[string]bool)

	for _, rule := range extractionRules {
		m := rule.re.FindStringSubmatch(msg)
		if m == nil || seen[rule.field] {
			continue
		}
		value := strings.Trim(strings.TrimSpace(m[1]), ".,!?")
		if value == "" {
			continue
		}
		seen[rule.field] = true

		p.store.Upsert(ctx, models.KnowledgeEntry{
			Kind:       models.KindPersonal,
			Key:        rule.field,
			Value:      value,
			Importance: rule.importance,
			Source:     models.SourceLearned,
			Confidence: 0.95,
		})
		captured = append(captured, fmt.Sprintf("%s = %q", rule.field, value))
	}

	if len(captured) == 0 {
		return nil
	}

	return &models.PathwayResult{
		Pathway:    models.PathwayPersonal,
		Confidence: 0.95,
		Answer:     p.acknowledge(seen),
		Data:       map[string]any{"extracted": captured},
		Reasoning:  append([]string{"extracted personal facts"}, captured...),
	}
}

func (p *PersonalProcessor) acknowledge(fields map[string]bool) string {
	if fields["name"] {
		if entry, err := p.store.Get(models.KindPersonal, "name"); err == nil {
			return fmt.Sprintf("Nice to meet you, %s! I'll remember that.", titleCase(entry.Value))
		}
	}
	return "Got it — I'll remember that."
}

// recall answers queries about stored personal facts.
func (p *PersonalProcessor) recall(msg string) *models.PathwayResult {
	for _, query := range personalQueries {
		if !query.re.MatchString(msg) {
			continue
		}
		if query.field == "" {
			return p.recallAll()
		}
		return p.recallField(query.field)
	}
	return nil
}

func (p *PersonalProcessor) recallField(field string) *models.PathwayResult {
	entry, err := p.store.Get(models.KindPersonal, field)
	if err != nil {
		return &models.PathwayResult{
			Pathway:    models.PathwayPersonal,
			Confidence: 0.3,
			Answer:     fmt.Sprintf("I don't have your %s stored yet — tell me and I'll remember it.", field),
			Reasoning:  []string{fmt.Sprintf("recall query for %s: nothing stored yet", field)},
		}
	}

	var answer string
	switch field {
	case "name":
		answer = fmt.Sprintf("Your name is %s.", titleCase(entry.Value))
	case "location":
		answer = fmt.Sprintf("You live in %s.", titleCase(entry.Value))
	case "occupation":
		answer = fmt.Sprintf("You work as %s.", entry.Value)
	case "age":
		answer = fmt.Sprintf("You are %s years old.", entry.Value)
	default:
		answer = fmt.Sprintf("Your %s is %s.", field, entry.Value)
	}

	return &models.PathwayResult{
		Pathway:    models.PathwayPersonal,
		Confidence: entry.Confidence,
		Answer:     answer,
		Data:       map[string]any{"field": field, "value": entry.Value},
		Reasoning:  []string{fmt.Sprintf("recalled %s from personal memory", field)},
	}
}

func (p *PersonalProcessor) recallAll() *models.PathwayResult {
	entries := p.store.All(models.KindPersonal)
	if len(entries) == 0 {
		return &models.PathwayResult{
			Pathway:    models.PathwayPersonal,
			Confidence: 0.3,
			Answer:     "I don't have anything stored about you yet.",
			Reasoning:  []string{"recall query: nothing stored yet"},
		}
	}

	// Most important facts first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Importance > entries[j].Importance
	})

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, fmt.Sprintf("your %s is %s", entry.Key, entry.Value))
	}

	return &models.PathwayResult{
		Pathway:    models.PathwayPersonal,
		Confidence: 0.9,
		Answer:     fmt.Sprintf("Here's what I remember: %s.", strings.Join(parts, "; ")),
		Data:       map[string]any{"fact_count": len(entries)},
		Reasoning:  []string{fmt.Sprintf("recalled %d personal facts", len(entries))},
	}
}

// titleCase uppercases the first letter of each word; good enough for
// names and place names captured from lowercased input.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
