// Package publisher runs the posting pipeline: fetch feed entries, generate summaries,
// render tier overlays and record every step in the audit log.
package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/sportswatch/pkg/audit"
	"github.com/umputun/sportswatch/pkg/domain"
	"github.com/umputun/sportswatch/pkg/llm"
)

//go:generate moq -out mocks/feed.go -pkg mocks -skip-ensure -fmt goimports . FeedSource
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/overlay.go -pkg mocks -skip-ensure -fmt goimports . OverlayStore
//go:generate moq -out mocks/audit.go -pkg mocks -skip-ensure -fmt goimports . AuditLog
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/thumbnailer.go -pkg mocks -skip-ensure -fmt goimports . Thumbnailer

// FeedSource provides content items
type FeedSource interface {
	Fetch(ctx context.Context, url string) ([]domain.ContentItem, error)
}

// Summarizer generates item summaries with provider fallback
type Summarizer interface {
	Summarize(ctx context.Context, body, title string) llm.Result
}

// OverlayStore renders and saves overlay of an item, returns saved file location
type OverlayStore interface {
	Save(item domain.ContentItem) (string, error)
}

// AuditLog records pipeline actions
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
}

// Enricher replaces teaser bodies with full article text
type Enricher interface {
	Enrich(ctx context.Context, item *domain.ContentItem) bool
}

// Thumbnailer generates thumbnail image descriptions
type Thumbnailer interface {
	GenerateThumbnailPrompt(ctx context.Context, title, summary string) (string, bool)
}

// Recorder receives pipeline counters
type Recorder interface {
	ItemProcessed(tier string, success bool)
	SummaryGenerated(provider string)
	OverlayWritten(tier string)
}

// Params of the publisher. Enricher, Thumbnailer, Recorder and Out are optional.
type Params struct {
	FeedURL     string
	Feed        FeedSource
	Summarizer  Summarizer
	Overlays    OverlayStore
	Audit       AuditLog
	Enricher    Enricher
	Thumbnailer Thumbnailer
	Recorder    Recorder
	Out         io.Writer // console summary of each post, os.Stdout if nil
	Now         func() time.Time
}

// Publisher processes feed items one by one. A failure of one item never stops the others.
type Publisher struct {
	Params
}

// Report summarizes a run
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	Monetized int
	Items     []domain.ContentItem
}

// New makes publisher
func New(p Params) *Publisher {
	if p.Out == nil {
		p.Out = os.Stdout
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Publisher{Params: p}
}

// Run fetches the feed and processes its items. Only feed errors are returned.
func (p *Publisher) Run(ctx context.Context) (Report, error) {
	log.Printf("[INFO] starting publishing run for %s", p.FeedURL)
	items, err := p.Feed.Fetch(ctx, p.FeedURL)
	if err != nil {
		return Report{}, fmt.Errorf("fetch posts: %w", err)
	}
	if len(items) == 0 {
		log.Printf("[WARN] no posts found in feed %s", p.FeedURL)
		return Report{Items: []domain.ContentItem{}}, nil
	}
	return p.Process(ctx, items), nil
}

// Process runs the pipeline over items sequentially
func (p *Publisher) Process(ctx context.Context, items []domain.ContentItem) Report {
	rep := Report{Total: len(items), Items: make([]domain.ContentItem, 0, len(items))}
	for i := range items {
		if ctx.Err() != nil {
			log.Printf("[WARN] publishing interrupted after %d of %d posts: %v", i, len(items), ctx.Err())
			break
		}
		item := items[i]
		log.Printf("[INFO] processing post %d/%d: %q, contributor %s, tier %s", i+1, len(items), item.Title, item.Contributor, item.Tier)

		ok := p.processItem(ctx, &item)
		if ok {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
		if item.Monetized {
			rep.Monetized++
		}
		if p.Recorder != nil {
			p.Recorder.ItemProcessed(item.Tier.String(), ok)
		}
		rep.Items = append(rep.Items, item)
	}
	log.Printf("[INFO] completed processing %d posts, %d failed, %d monetized", rep.Succeeded+rep.Failed, rep.Failed, rep.Monetized)
	return rep
}

// processItem fills summary and monetization flag, saves overlay and records the result in audit log
func (p *Publisher) processItem(ctx context.Context, item *domain.ContentItem) bool {
	if p.Enricher != nil {
		p.Enricher.Enrich(ctx, item)
	}

	res := p.Summarizer.Summarize(ctx, item.Body, item.Title)
	if res.OK {
		item.Summary = res.Summary
	} else {
		log.Printf("[WARN] no summary generated for %q", item.Title)
	}
	item.Monetized = res.OK
	if p.Recorder != nil {
		p.Recorder.SummaryGenerated(res.Provider)
	}

	details := map[string]any{"summary_generated": res.OK}
	if res.OK {
		details["provider"] = res.Provider
	}
	if res.OK && p.Thumbnailer != nil {
		if prompt, ok := p.Thumbnailer.GenerateThumbnailPrompt(ctx, item.Title, item.Summary); ok {
			details["thumbnail_prompt"] = prompt
		}
	}

	path, err := p.Overlays.Save(*item)
	if err != nil {
		log.Printf("[ERROR] can't save overlay for %q: %v", item.Title, err)
		details["error"] = err.Error()
		p.record(ctx, *item, false, details)
		return false
	}
	log.Printf("[INFO] saved %s overlay to %s", item.Tier, path)
	if p.Recorder != nil {
		p.Recorder.OverlayWritten(item.Tier.String())
	}

	details["overlay_file"] = path
	p.record(ctx, *item, true, details)
	p.display(*item)
	return true
}

// record appends audit entry, failures are logged and otherwise ignored
func (p *Publisher) record(ctx context.Context, item domain.ContentItem, success bool, details map[string]any) {
	entry := audit.NewEntry(audit.ActionProcessPost, item, success, details, p.Now())
	if err := p.Audit.Append(ctx, entry); err != nil {
		log.Printf("[ERROR] can't write audit entry for %q: %v", item.Title, err)
	}
}
