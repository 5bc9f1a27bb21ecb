// Package feed reads contributor posts from an RSS/Atom feed.
package feed

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/sportswatch/pkg/domain"
)

// DefaultMaxItems is the number of entries taken from a feed
const DefaultMaxItems = 10

// Parser fetches a feed and converts its entries to content items
type Parser struct {
	client    *http.Client
	userAgent string
	maxItems  int
	sanitizer *bluemonday.Policy
}

// NewParser makes feed parser, maxItems <= 0 means DefaultMaxItems
func NewParser(timeout time.Duration, userAgent string, maxItems int) *Parser {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		maxItems:  maxItems,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Fetch downloads the feed and returns the first entries as content items
func (p *Parser) Fetch(ctx context.Context, url string) ([]domain.ContentItem, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := feed.Items
	if len(entries) > p.maxItems {
		entries = entries[:p.maxItems]
	}
	res := make([]domain.ContentItem, 0, len(entries))
	for _, entry := range entries {
		res = append(res, p.toItem(entry))
	}
	log.Printf("[DEBUG] fetched %d of %d entries from %s", len(res), len(feed.Items), url)
	return res, nil
}

func (p *Parser) toItem(entry *gofeed.Item) domain.ContentItem {
	item := domain.ContentItem{
		Title:       strings.TrimSpace(entry.Title),
		Contributor: "Unknown",
		Tier:        Tier(entry),
		Link:        entry.Link,
		Body:        p.text(entry.Description),
	}
	if item.Title == "" {
		item.Title = "Untitled"
	}
	if entry.Author != nil && strings.TrimSpace(entry.Author.Name) != "" {
		item.Contributor = strings.TrimSpace(entry.Author.Name)
	} else if len(entry.Authors) > 0 && entry.Authors[0] != nil && strings.TrimSpace(entry.Authors[0].Name) != "" {
		item.Contributor = strings.TrimSpace(entry.Authors[0].Name)
	}
	if item.Body == "" {
		item.Body = p.text(entry.Content)
	}

	switch {
	case entry.PublishedParsed != nil:
		item.Published = entry.PublishedParsed.Format(time.RFC3339)
	case entry.Published != "":
		item.Published = entry.Published
	}

	if entry.Image != nil && entry.Image.URL != "" {
		item.ThumbnailRef = entry.Image.URL
	} else {
		for _, enc := range entry.Enclosures {
			if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
				item.ThumbnailRef = enc.URL
				break
			}
		}
	}
	return item
}

// text strips markup and collapses whitespace
func (p *Parser) text(s string) string {
	if s == "" {
		return ""
	}
	clean := p.sanitizer.Sanitize(s)
	return strings.Join(strings.Fields(html.UnescapeString(clean)), " ")
}

// Tier derives the contributor tier of an entry. Categories are checked first, in order,
// for gold, silver or bronze as a case-insensitive substring; then kofi_tier and tier elements.
func Tier(entry *gofeed.Item) domain.Tier {
	for _, c := range entry.Categories {
		lc := strings.ToLower(c)
		for _, t := range []domain.Tier{domain.TierGold, domain.TierSilver, domain.TierBronze} {
			if strings.Contains(lc, string(t)) {
				return t
			}
		}
	}
	for _, key := range []string{"kofi_tier", "tier"} {
		if v, ok := entry.Custom[key]; ok && v != "" {
			return domain.ParseTier(v)
		}
	}
	return domain.TierFree
}

func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
