package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"openhouse-aggregator/utils"
)

const fetchTimeout = 10 * time.Second

// userAgents is a small pool of current browser user-agent strings; each
// Session picks one at random and keeps it for its lifetime.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Session is the shared fetch layer for live scrapers: one HTTP client
// with a bounded timeout, browser-like headers, a per-session random
// user-agent, and a polite random delay before every fetch.
type Session struct {
	client    *http.Client
	delay     *utils.RandomDelay
	userAgent string
	logger    *utils.Logger
}

// NewSession creates a Session sleeping a uniform random duration in
// [minDelay, maxDelay] before each page fetch.
func NewSession(minDelay, maxDelay time.Duration, logger *utils.Logger) *Session {
	return &Session{
		client:    &http.Client{Timeout: fetchTimeout},
		delay:     utils.NewRandomDelay(minDelay, maxDelay),
		userAgent: userAgents[rand.Intn(len(userAgents))],
		logger:    logger,
	}
}

// GetPage fetches and parses a web page. Any network or status failure is
// logged and returned as an error; callers treat a nil document as "no
// results", never as a reason to abort a whole batch.
func (s *Session) GetPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	s.logger.Info("[session] Fetching: %s", pageURL)
	s.delay.Wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("session: build request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	// Accept-Encoding is left to the transport so gzip responses are
	// decompressed before parsing.

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("session: fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// NormalizePrice converts a price string like "$1,250,000" to integer
// cents. Returns nil on anything non-numeric.
func NormalizePrice(text string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "$", ""), ",", ""))
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	cents := v * 100
	return &cents
}

// NormalizeAddress trims surrounding whitespace; absent input yields "".
func NormalizeAddress(text string) string {
	return strings.TrimSpace(text)
}
