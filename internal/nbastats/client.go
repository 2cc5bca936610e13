package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os/exec"
	"sync"
	"time"
)

const (
	// BaseURL for the stats API
	BaseURL = "https://stats.nba.com/stats"

	// LeagueID for the NBA
	LeagueID = "00"

	// DefaultRateLimitDelay between requests. The upstream aggressively
	// throttles, so this errs generous.
	DefaultRateLimitDelay = 1500 * time.Millisecond
)

// requestHeaders mimic a browser session; the stats API rejects requests
// without the stats-origin headers.
var requestHeaders = map[string]string{
	"Accept":            "application/json, text/plain, */*",
	"Accept-Language":   "en-US,en;q=0.9",
	"Cache-Control":     "no-cache",
	"Connection":        "keep-alive",
	"Host":              "stats.nba.com",
	"Referer":           "https://www.nba.com/",
	"User-Agent":        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// Client fetches stats.nba.com endpoints with rate limiting.
// Note: Uses curl internally because the stats API blocks Go's HTTP client fingerprint
type Client struct {
	baseURL string

	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration
}

// New creates a stats API client with a custom base URL (tests point this at
// a fixture server).
func New(baseURL string, rateLimitDelay time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if rateLimitDelay <= 0 {
		rateLimitDelay = DefaultRateLimitDelay
	}

	return &Client{
		baseURL:  baseURL,
		interval: rateLimitDelay,
	}
}

// NewClient creates a stats API client with default settings
func NewClient() *Client {
	return New(BaseURL, DefaultRateLimitDelay)
}

// Get fetches an endpoint with query parameters and decodes the resultSets
// envelope.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	return c.FetchURL(ctx, u)
}

// FetchURL fetches an absolute stats API URL. Used directly for endpoints
// discovered inside scraped pages.
func (c *Client) FetchURL(ctx context.Context, u string) (*Response, error) {
	c.rateLimit()

	args := []string{"-s", "-L", "-m", "20"}
	for k, v := range requestHeaders {
		args = append(args, "-H", fmt.Sprintf("%s: %s", k, v))
	}
	args = append(args, u)

	cmd := exec.CommandContext(ctx, "curl", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("curl failed: %s (stderr: %s)", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("curl execution failed: %w", err)
	}

	// Check for an HTML error page (403, rate-limit block, etc.)
	if len(output) > 0 && output[0] == '<' {
		return nil, fmt.Errorf("stats API returned HTML error page: %s", string(output[:min(len(output), 200)]))
	}

	var result Response
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w (body: %s)", err, string(output[:min(len(output), 200)]))
	}

	return &result, nil
}

// rateLimit enforces the minimum interval between requests
func (c *Client) rateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			wait := c.interval - elapsed
			log.Printf("[nbastats] Rate limiting: waiting %v before next request", wait.Round(time.Millisecond))
			time.Sleep(wait)
		}
	}
	c.lastRequest = time.Now()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
