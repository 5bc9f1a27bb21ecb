// Package content pulls full article text from a post's link when the feed carries only a teaser.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"

	"github.com/umputun/sportswatch/pkg/domain"
)

// Extractor downloads article pages and extracts the main text with trafilatura
type Extractor struct {
	timeout   time.Duration
	userAgent string
	minLength int
	client    *http.Client
}

// NewExtractor makes extractor. Bodies with fewer than minLength characters are considered teasers.
func NewExtractor(timeout time.Duration, userAgent string, minLength int) *Extractor {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; SportsWatch/1.0)"
	}
	return &Extractor{
		timeout:   timeout,
		userAgent: userAgent,
		minLength: minLength,
		client:    &http.Client{Timeout: timeout},
	}
}

// Enrich replaces a short item body with the text extracted from the item's link.
// Returns true if the body was replaced, extraction failures keep the original body.
func (e *Extractor) Enrich(ctx context.Context, item *domain.ContentItem) bool {
	if item.Link == "" || utf8.RuneCountInString(item.Body) >= e.minLength {
		return false
	}
	text, err := e.Extract(ctx, item.Link)
	if err != nil {
		log.Printf("[WARN] can't extract content for %q: %v", item.Title, err)
		return false
	}
	if utf8.RuneCountInString(text) <= utf8.RuneCountInString(item.Body) {
		return false
	}
	log.Printf("[DEBUG] extracted %d chars for %q from %s", len(text), item.Title, item.Link)
	item.Body = text
	return true
}

// Extract retrieves the page and returns its main text
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid url: %q", pageURL)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", pageURL, err)
	}
	if result == nil || strings.TrimSpace(result.ContentText) == "" {
		return "", fmt.Errorf("no text content in %s", pageURL)
	}
	return strings.TrimSpace(result.ContentText), nil
}
