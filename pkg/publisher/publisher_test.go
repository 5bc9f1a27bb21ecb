package publisher

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sportswatch/pkg/domain"
	"github.com/umputun/sportswatch/pkg/llm"
	"github.com/umputun/sportswatch/pkg/publisher/mocks"
)

func testItems() []domain.ContentItem {
	return []domain.ContentItem{
		{Title: "Derby", Body: "Rovers win", Contributor: "jane", Tier: domain.TierGold},
		{Title: "Local cup", Body: "Town lose", Contributor: "joe", Tier: domain.TierFree},
	}
}

type testRecorder struct {
	items     map[string]int
	summaries map[string]int
	overlays  map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{items: map[string]int{}, summaries: map[string]int{}, overlays: map[string]int{}}
}

func (r *testRecorder) ItemProcessed(tier string, success bool) {
	if success {
		r.items[tier+":ok"]++
		return
	}
	r.items[tier+":fail"]++
}
func (r *testRecorder) SummaryGenerated(provider string) { r.summaries[provider]++ }
func (r *testRecorder) OverlayWritten(tier string)       { r.overlays[tier]++ }

func TestPublisher_Run(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	feed := &mocks.FeedSourceMock{FetchFunc: func(ctx context.Context, url string) ([]domain.ContentItem, error) {
		return testItems(), nil
	}}
	summarizer := &mocks.SummarizerMock{SummarizeFunc: func(ctx context.Context, body, title string) llm.Result {
		if title == "Derby" {
			return llm.Result{Summary: "⚽ Rovers storm to derby glory tonight!", Provider: "gemini", OK: true}
		}
		return llm.Result{}
	}}
	overlays := &mocks.OverlayStoreMock{SaveFunc: func(item domain.ContentItem) (string, error) {
		return "/out/overlay_" + item.Tier.String() + ".xml", nil
	}}
	auditLog := &mocks.AuditLogMock{AppendFunc: func(ctx context.Context, entry domain.AuditEntry) error { return nil }}
	out := &bytes.Buffer{}
	rec := newTestRecorder()

	p := New(Params{FeedURL: "http://example.com/feed", Feed: feed, Summarizer: summarizer, Overlays: overlays,
		Audit: auditLog, Recorder: rec, Out: out, Now: func() time.Time { return now }})
	rep, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 0, rep.Failed)
	assert.Equal(t, 1, rep.Monetized)
	require.Len(t, rep.Items, 2)
	assert.Equal(t, "⚽ Rovers storm to derby glory tonight!", rep.Items[0].Summary)
	assert.True(t, rep.Items[0].Monetized)
	assert.Empty(t, rep.Items[1].Summary)
	assert.False(t, rep.Items[1].Monetized)

	require.Len(t, feed.FetchCalls(), 1)
	assert.Equal(t, "http://example.com/feed", feed.FetchCalls()[0].URL)

	// items processed in order
	calls := summarizer.SummarizeCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Derby", calls[0].Title)
	assert.Equal(t, "Rovers win", calls[0].Body)
	assert.Equal(t, "Local cup", calls[1].Title)

	// overlay rendered after summary generation
	saves := overlays.SaveCalls()
	require.Len(t, saves, 2)
	assert.True(t, saves[0].Item.Monetized)
	assert.Equal(t, "⚽ Rovers storm to derby glory tonight!", saves[0].Item.Summary)
	assert.False(t, saves[1].Item.Monetized)

	entries := auditLog.AppendCalls()
	require.Len(t, entries, 2)
	first := entries[0].Entry
	assert.Equal(t, "process_post", first.Action)
	assert.True(t, first.Success)
	assert.Equal(t, now, first.Timestamp)
	assert.Equal(t, domain.PostSnapshot{Title: "Derby", Contributor: "jane", Tier: domain.TierGold, Monetized: true}, first.Post)
	assert.Equal(t, map[string]any{"summary_generated": true, "provider": "gemini", "overlay_file": "/out/overlay_gold.xml"},
		first.Details)
	second := entries[1].Entry
	assert.True(t, second.Success)
	assert.Equal(t, map[string]any{"summary_generated": false, "overlay_file": "/out/overlay_free.xml"}, second.Details)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, map[string]int{"gold:ok": 1, "free:ok": 1}, rec.items)
	assert.Equal(t, map[string]int{"gemini": 1, "": 1}, rec.summaries)
	assert.Equal(t, map[string]int{"gold": 1, "free": 1}, rec.overlays)

	assert.Contains(t, out.String(), "TITLE: Derby")
	assert.Contains(t, out.String(), "CONTRIBUTOR: jane")
	assert.Contains(t, out.String(), "GOLD")
	assert.Contains(t, out.String(), "SUMMARY:\n⚽ Rovers storm to derby glory tonight!")
	assert.Contains(t, out.String(), "TITLE: Local cup")
}

func TestPublisher_FailureIsolated(t *testing.T) {
	summarizer := &mocks.SummarizerMock{SummarizeFunc: func(ctx context.Context, body, title string) llm.Result {
		return llm.Result{Summary: "a perfectly fine summary text", Provider: "openai", OK: true}
	}}
	overlays := &mocks.OverlayStoreMock{SaveFunc: func(item domain.ContentItem) (string, error) {
		if item.Title == "Derby" {
			return "", errors.New("disk full")
		}
		return "overlay.xml", nil
	}}
	auditLog := &mocks.AuditLogMock{AppendFunc: func(ctx context.Context, entry domain.AuditEntry) error { return nil }}

	p := New(Params{Summarizer: summarizer, Overlays: overlays, Audit: auditLog, Out: &bytes.Buffer{}})
	rep := p.Process(context.Background(), testItems())

	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 2, rep.Monetized)

	entries := auditLog.AppendCalls()
	require.Len(t, entries, 2, "failed item recorded and next item processed")
	assert.False(t, entries[0].Entry.Success)
	assert.Equal(t, map[string]any{"summary_generated": true, "provider": "openai", "error": "disk full"},
		entries[0].Entry.Details, "facts collected before the failure are kept")
	assert.True(t, entries[1].Entry.Success)
	assert.Len(t, overlays.SaveCalls(), 2)
}

func TestPublisher_AuditFailureIgnored(t *testing.T) {
	summarizer := &mocks.SummarizerMock{SummarizeFunc: func(ctx context.Context, body, title string) llm.Result {
		return llm.Result{}
	}}
	overlays := &mocks.OverlayStoreMock{SaveFunc: func(item domain.ContentItem) (string, error) { return "x.xml", nil }}
	auditLog := &mocks.AuditLogMock{AppendFunc: func(ctx context.Context, entry domain.AuditEntry) error {
		return errors.New("read-only file system")
	}}

	out := &bytes.Buffer{}
	p := New(Params{Summarizer: summarizer, Overlays: overlays, Audit: auditLog, Out: out})
	rep := p.Process(context.Background(), testItems())
	assert.Equal(t, 2, rep.Succeeded)
	assert.Len(t, auditLog.AppendCalls(), 2)
	assert.Len(t, overlays.SaveCalls(), 2)
	assert.Contains(t, out.String(), "TITLE")
	assert.NotContains(t, out.String(), "SUMMARY", "no summary section without summary")
}

func TestPublisher_RunFeedError(t *testing.T) {
	feed := &mocks.FeedSourceMock{FetchFunc: func(ctx context.Context, url string) ([]domain.ContentItem, error) {
		return nil, errors.New("connection refused")
	}}
	p := New(Params{FeedURL: "http://example.com/feed", Feed: feed})
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch posts: connection refused")
}

func TestPublisher_RunEmptyFeed(t *testing.T) {
	feed := &mocks.FeedSourceMock{FetchFunc: func(ctx context.Context, url string) ([]domain.ContentItem, error) {
		return nil, nil
	}}
	summarizer := &mocks.SummarizerMock{}
	p := New(Params{Feed: feed, Summarizer: summarizer})
	rep, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Total)
	assert.Empty(t, summarizer.SummarizeCalls())
}

func TestPublisher_EnricherAndThumbnail(t *testing.T) {
	enricher := &mocks.EnricherMock{EnrichFunc: func(ctx context.Context, item *domain.ContentItem) bool {
		item.Body = "full article text of " + item.Title
		return true
	}}
	summarizer := &mocks.SummarizerMock{SummarizeFunc: func(ctx context.Context, body, title string) llm.Result {
		if title == "Local cup" {
			return llm.Result{}
		}
		return llm.Result{Summary: "summary of " + body, Provider: "gemini", OK: true}
	}}
	thumbs := &mocks.ThumbnailerMock{GenerateThumbnailPromptFunc: func(ctx context.Context, title, summary string) (string, bool) {
		return "a striker celebrating under floodlights", true
	}}
	overlays := &mocks.OverlayStoreMock{SaveFunc: func(item domain.ContentItem) (string, error) { return "x.xml", nil }}
	auditLog := &mocks.AuditLogMock{AppendFunc: func(ctx context.Context, entry domain.AuditEntry) error { return nil }}

	p := New(Params{Summarizer: summarizer, Overlays: overlays, Audit: auditLog, Enricher: enricher,
		Thumbnailer: thumbs, Out: &bytes.Buffer{}})
	rep := p.Process(context.Background(), testItems())

	require.Len(t, rep.Items, 2)
	assert.Equal(t, "full article text of Derby", rep.Items[0].Body)
	assert.Equal(t, "summary of full article text of Derby", rep.Items[0].Summary)
	assert.Len(t, enricher.EnrichCalls(), 2)

	// thumbnail prompt only for items with a summary
	require.Len(t, thumbs.GenerateThumbnailPromptCalls(), 1)
	assert.Equal(t, "Derby", thumbs.GenerateThumbnailPromptCalls()[0].Title)
	entries := auditLog.AppendCalls()
	require.Len(t, entries, 2)
	assert.Equal(t, "a striker celebrating under floodlights", entries[0].Entry.Details["thumbnail_prompt"])
	assert.NotContains(t, entries[1].Entry.Details, "thumbnail_prompt")
}

func TestPublisher_ContextCanceled(t *testing.T) {
	summarizer := &mocks.SummarizerMock{}
	p := New(Params{Summarizer: summarizer, Out: &bytes.Buffer{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := p.Process(ctx, testItems())
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 0, rep.Succeeded+rep.Failed)
	assert.Empty(t, summarizer.SummarizeCalls())
}
