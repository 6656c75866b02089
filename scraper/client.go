// scraper/client.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/time2cinema/scrape/config"
)

var errInvalidPage = errors.New("page is missing the expected content")

// Client fetches and parses atmovies pages.
type Client struct {
	httpClient *http.Client
	userAgent  string
	referer    string
	maxRetries int
	retryDelay time.Duration
}

// NewClient builds a Client from the scraper and site sections of the
// configuration.
func NewClient(sc config.ScraperConfig, site config.ATMoviesConfig) *Client {
	maxRetries := sc.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: sc.Timeout},
		userAgent:  site.UserAgent,
		referer:    site.BaseURL,
		maxRetries: maxRetries,
		retryDelay: sc.RetryDelay,
	}
}

// DefaultClient builds a Client from config.AppConfig.
func DefaultClient() *Client {
	return NewClient(config.AppConfig.Scraper, config.AppConfig.ATMovies)
}

// Fetch downloads pageURL and parses it. Failed requests, non-200 responses
// and pages without the expected content are retried up to the configured
// number of attempts, waiting retryDelay*attempt between them.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		doc, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Printf("WARN Scraper: attempt %d/%d for %s failed: %v", attempt, c.maxRetries, pageURL, err)

		if attempt == c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", pageURL, c.maxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}
	if !isValidPage(doc, pageURL) {
		return nil, fmt.Errorf("%s: %w", pageURL, errInvalidPage)
	}
	return doc, nil
}

// isValidPage catches the half-rendered pages atmovies sometimes serves
// under load: a listing must link to at least one film, a film page must
// carry its title block.
func isValidPage(doc *goquery.Document, pageURL string) bool {
	switch {
	case strings.Contains(pageURL, "/movie/") && !strings.Contains(pageURL, "/now"):
		return doc.Find(".filmTitle").Length() > 0
	case strings.Contains(pageURL, "/now/") || strings.Contains(pageURL, "/now2/"):
		return doc.Find("a[href*='/movie/']").Length() > 0
	default:
		return true
	}
}
