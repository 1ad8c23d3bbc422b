package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const userAgent = "Synapse-Assistant/1.0 (+https://synapse.example.com/bot)"

// Client performs rate-limited, cached HTTP lookups against the dictionary
// and encyclopedia services.
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger

	globalLimiter   *rate.Limiter
	perHostLimiters sync.Map // map[string]*rate.Limiter
	perHostRate     float64

	cache     *gocache.Cache // in-process L1
	secondary SecondaryCache // optional shared L2 (Redis)
	cacheTTL  time.Duration

	dictionaryBaseURL   string
	encyclopediaBaseURL string
}

// Options tunes the client. Zero values fall back to sane defaults.
type Options struct {
	GlobalRate  float64 // requests/second across all hosts
	PerHostRate float64 // requests/second per host
	CacheTTL    time.Duration
	Secondary   SecondaryCache

	// Overridable in tests.
	DictionaryBaseURL   string
	EncyclopediaBaseURL string
}

// NewClient creates a lookup client with pooled connections.
func NewClient(opts Options) *Client {
	if opts.GlobalRate <= 0 {
		opts.GlobalRate = 10
	}
	if opts.PerHostRate <= 0 {
		opts.PerHostRate = 2
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.DictionaryBaseURL == "" {
		opts.DictionaryBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	}
	if opts.EncyclopediaBaseURL == "" {
		opts.EncyclopediaBaseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		logger:              logger,
		globalLimiter:       rate.NewLimiter(rate.Limit(opts.GlobalRate), int(opts.GlobalRate*2)),
		perHostRate:         opts.PerHostRate,
		cache:               gocache.New(opts.CacheTTL, 10*time.Minute),
		secondary:           opts.Secondary,
		cacheTTL:            opts.CacheTTL,
		dictionaryBaseURL:   opts.DictionaryBaseURL,
		encyclopediaBaseURL: opts.EncyclopediaBaseURL,
	}
}

// getJSON fetches a URL with rate limiting applied and decodes the body
// into out. The caller's context carries the lookup deadline.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid lookup URL: %w", err)
	}

	if err := c.wait(ctx, parsed.Host); err != nil {
		return fmt.Errorf("rate limit wait aborted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read lookup response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed lookup response: %w", err)
	}
	return nil
}

// wait applies the global and per-host limiters.
func (c *Client) wait(ctx context.Context, host string) error {
	if err := c.globalLimiter.Wait(ctx); err != nil {
		return err
	}
	return c.hostLimiter(host).Wait(ctx)
}

func (c *Client) hostLimiter(host string) *rate.Limiter {
	if limiter, ok := c.perHostLimiters.Load(host); ok {
		return limiter.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(c.perHostRate), 1)
	actual, _ := c.perHostLimiters.LoadOrStore(host, limiter)
	return actual.(*rate.Limiter)
}

// cachedJSON checks L1 then L2 for a cached response.
func (c *Client) cachedJSON(ctx context.Context, key string, out any) bool {
	if raw, ok := c.cache.Get(key); ok {
		if err := json.Unmarshal([]byte(raw.(string)), out); err == nil {
			return true
		}
	}
	if c.secondary != nil {
		if raw, ok := c.secondary.GetCached(ctx, key); ok {
			if err := json.Unmarshal([]byte(raw), out); err == nil {
				c.cache.Set(key, raw, c.cacheTTL)
				return true
			}
		}
	}
	return false
}

// storeJSON writes a response into both cache tiers.
func (c *Client) storeJSON(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.cache.Set(key, string(raw), c.cacheTTL)
	if c.secondary != nil {
		c.secondary.SetCached(ctx, key, string(raw))
	}
}
