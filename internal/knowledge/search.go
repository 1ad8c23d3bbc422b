package knowledge

import (
	"sort"
	"strings"

	"synapse/internal/models"
)

// ScoredEntry is a search hit with its relevance score.
type ScoredEntry struct {
	Entry     models.KnowledgeEntry `json:"entry"`
	Relevance float64               `json:"relevance"`
}

// Tokenize splits text into lowercase word tokens, dropping punctuation.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Relevance scores a candidate against query tokens: shared tokens
// divided by the larger of the two token counts. The candidate is scored
// twice, once on its key alone and once on key plus value text, and the
// better score wins; a query that names the key exactly scores 1.0 no
// matter how long the stored value is.
func Relevance(queryTokens []string, entry models.KnowledgeEntry) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	keyScore := overlapRatio(queryTokens, Tokenize(entry.Key))
	fullScore := overlapRatio(queryTokens, Tokenize(entry.Key+" "+entry.Value))
	if keyScore > fullScore {
		return keyScore
	}
	return fullScore
}

func overlapRatio(queryTokens, candidateTokens []string) float64 {
	if len(candidateTokens) == 0 {
		return 0
	}

	candidateSet := make(map[string]struct{}, len(candidateTokens))
	for _, t := range candidateTokens {
		candidateSet[t] = struct{}{}
	}

	querySet := make(map[string]struct{}, len(queryTokens))
	shared := 0
	for _, t := range queryTokens {
		if _, dup := querySet[t]; dup {
			continue
		}
		querySet[t] = struct{}{}
		if _, ok := candidateSet[t]; ok {
			shared++
		}
	}

	denom := len(querySet)
	if len(candidateSet) > denom {
		denom = len(candidateSet)
	}
	return float64(shared) / float64(denom)
}

// Search ranks entries of a kind against the query by token overlap.
// Zero-relevance entries are excluded. Ties break by higher confidence,
// then by more recent update.
func (s *Store) Search(kind models.EntryKind, query string) []ScoredEntry {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var hits []ScoredEntry
	for _, entry := range s.All(kind) {
		score := Relevance(queryTokens, entry)
		if score > 0 {
			hits = append(hits, ScoredEntry{Entry: entry, Relevance: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		if hits[i].Entry.Confidence != hits[j].Entry.Confidence {
			return hits[i].Entry.Confidence > hits[j].Entry.Confidence
		}
		return hits[i].Entry.UpdatedAt.After(hits[j].Entry.UpdatedAt)
	})

	return hits
}

// BestMatch returns the top search hit, or nil when nothing matches.
func (s *Store) BestMatch(kind models.EntryKind, query string) *ScoredEntry {
	hits := s.Search(kind, query)
	if len(hits) == 0 {
		return nil
	}
	return &hits[0]
}
