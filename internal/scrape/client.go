package scrape

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/nbastats"
)

const (
	// UserAgent for all scraping requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval between page loads to avoid tripping rate limits
	MinRequestInterval = 3 * time.Second

	// PageCacheTTL for rendered page payloads in Redis
	PageCacheTTL = 6 * time.Hour
)

// endpointPattern matches stats.nba.com API URLs embedded in rendered pages.
// Stat pages load their data from these endpoints client-side, so discovering
// one lets us skip HTML table parsing entirely.
// The character class admits backslashes so JSON-escaped URLs (& for &)
// are captured whole and unescaped afterwards.
var endpointPattern = regexp.MustCompile(`https://stats\.nba\.com/stats/[A-Za-z0-9]+\?[^"'<>\s]+`)

// Fetcher renders JS-heavy stat pages with a headless browser, with rate
// limiting and optional Redis payload caching.
type Fetcher struct {
	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc

	stats *nbastats.Client
	cache *cache.RedisCache
}

// NewFetcher creates a scraping fetcher. Discovered stats API endpoints are
// fetched through the given stats client so they share its rate limiter. The
// cache is optional; pass nil to always hit the network.
func NewFetcher(stats *nbastats.Client, c *cache.RedisCache) (*Fetcher, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
		stats:    stats,
		cache:    c,
	}, nil
}

// Close releases the headless browser.
func (f *Fetcher) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// FetchPage renders a page in the headless browser and returns its HTML.
// Served from cache when a fresh payload exists.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if f.cache != nil {
		if payload, ok := f.cache.GetPayload(ctx, pageURL); ok {
			return payload, nil
		}
	}

	f.rateLimit()

	html, err := f.render(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		if err := f.cache.SetPayload(ctx, pageURL, html, PageCacheTTL); err != nil {
			log.Printf("[scrape] Warning: failed to cache page payload: %v", err)
		}
	}
	return html, nil
}

// FetchStatic fetches a plain HTML page without a browser. Used for sites
// that serve full server-rendered tables (Hashtag Basketball).
func (f *Fetcher) FetchStatic(ctx context.Context, pageURL string) (string, error) {
	if f.cache != nil {
		if payload, ok := f.cache.GetPayload(ctx, pageURL); ok {
			return payload, nil
		}
	}

	f.rateLimit()

	// Go's HTTP client fingerprint gets blocked by some stat sites; curl
	// with a browser UA does not.
	cmd := exec.CommandContext(ctx, "curl", "-s", "-L", "-m", "30",
		"-H", "User-Agent: "+UserAgent,
		"-H", "Accept: text/html,application/xhtml+xml",
		pageURL,
	)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("curl fetch failed for %s: %w", pageURL, err)
	}
	if len(output) == 0 {
		return "", fmt.Errorf("empty response from %s", pageURL)
	}

	html := string(output)
	if f.cache != nil {
		if err := f.cache.SetPayload(ctx, pageURL, html, PageCacheTTL); err != nil {
			log.Printf("[scrape] Warning: failed to cache page payload: %v", err)
		}
	}
	return html, nil
}

// DiscoverEndpoints returns the embedded stats API URLs whose endpoint path
// contains the given name, in page order.
func DiscoverEndpoints(html, endpoint string) []string {
	var matches []string
	seen := make(map[string]bool)
	for _, m := range endpointPattern.FindAllString(html, -1) {
		// JSON-escaped URLs come out with \u0026 separators
		m = strings.ReplaceAll(m, `\u0026`, "&")
		if !strings.Contains(m, "/stats/"+endpoint) {
			continue
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		matches = append(matches, m)
	}
	return matches
}

// ParseHTML converts raw HTML to a goquery Document.
func ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (f *Fetcher) rateLimit() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.lastRequest.IsZero() {
		elapsed := time.Since(f.lastRequest)
		if elapsed < f.interval {
			time.Sleep(f.interval - elapsed)
		}
	}
	f.lastRequest = time.Now()
}

func (f *Fetcher) render(ctx context.Context, pageURL string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 45*time.Second)
	defer cancel()

	// Propagate caller cancellation into the browser context.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-browserCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error for %s: %w", pageURL, err)
	}
	if html == "" {
		return "", fmt.Errorf("empty HTML content returned for %s", pageURL)
	}
	return html, nil
}
