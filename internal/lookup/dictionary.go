package lookup

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"synapse/internal/models"
)

// dictionaryResponse mirrors the dictionaryapi.dev payload, reduced to the
// fields we keep.
type dictionaryResponse []struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// LookupWord fetches a word definition. Best-effort: a miss, timeout or
// malformed payload comes back as an error for the caller to downgrade.
func (c *Client) LookupWord(ctx context.Context, word string) (*WordResult, error) {
	word = models.NormalizeKey(word)
	if word == "" {
		return nil, fmt.Errorf("empty word")
	}

	cacheKey := "word:" + word
	var cached WordResult
	if c.cachedJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	endpoint := c.dictionaryBaseURL + "/" + url.PathEscape(word)

	var resp dictionaryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.logger.WithFields(logrus.Fields{"word": word, "error": err}).Warn("dictionary lookup failed")
		return nil, err
	}

	if len(resp) == 0 || len(resp[0].Meanings) == 0 || len(resp[0].Meanings[0].Definitions) == 0 {
		return nil, ErrNotFound
	}

	meaning := resp[0].Meanings[0]
	result := &WordResult{
		Word:         word,
		Definition:   meaning.Definitions[0].Definition,
		PartOfSpeech: meaning.PartOfSpeech,
	}
	for _, def := range meaning.Definitions {
		if def.Example != "" {
			result.Examples = append(result.Examples, def.Example)
		}
		if len(result.Examples) >= 3 {
			break
		}
	}

	c.storeJSON(ctx, cacheKey, result)
	c.logger.WithField("word", word).Debug("dictionary lookup succeeded")
	return result, nil
}
