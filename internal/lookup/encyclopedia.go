package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// summaryResponse mirrors the Wikipedia REST summary payload.
type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// LookupTopic fetches an encyclopedia summary for a topic phrase.
func (c *Client) LookupTopic(ctx context.Context, topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("empty topic")
	}

	cacheKey := "topic:" + strings.ToLower(topic)
	var cached TopicResult
	if c.cachedJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	// Wikipedia titles use underscores for spaces.
	title := strings.ReplaceAll(topic, " ", "_")
	endpoint := c.encyclopediaBaseURL + "/" + url.PathEscape(title)

	var resp summaryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.logger.WithFields(logrus.Fields{"topic": topic, "error": err}).Warn("encyclopedia lookup failed")
		return nil, err
	}

	if resp.Extract == "" {
		return nil, ErrNotFound
	}

	result := &TopicResult{
		Title:   resp.Title,
		Summary: resp.Extract,
		URL:     resp.ContentURLs.Desktop.Page,
	}

	c.storeJSON(ctx, cacheKey, result)
	c.logger.WithField("topic", topic).Debug("encyclopedia lookup succeeded")
	return result, nil
}
