package llm

import (
	"context"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
)

// MinSummaryLength is the default quality threshold, shorter outputs are rejected
const MinSummaryLength = 20

// Result of a summary generation attempt
type Result struct {
	Summary  string
	Provider string // name of the provider that produced the summary
	OK       bool
}

// Summarizer tries providers in order until one returns a summary passing the quality gate
type Summarizer struct {
	providers []Provider
	minLength int
}

// NewSummarizer makes summarizer for the given fallback chain, primary provider first.
// minLength <= 0 means MinSummaryLength.
func NewSummarizer(minLength int, providers ...Provider) *Summarizer {
	if minLength <= 0 {
		minLength = MinSummaryLength
	}
	return &Summarizer{providers: providers, minLength: minLength}
}

// Summarize returns the first acceptable summary of the chain
func (s *Summarizer) Summarize(ctx context.Context, body, title string) Result {
	for i, p := range s.providers {
		if !p.Enabled() {
			lgr.Printf("[DEBUG] %s not configured, skipping", p.Name())
			continue
		}

		lgr.Printf("[INFO] attempting summary generation with %s", p.Name())
		summary, ok := p.GenerateSummary(ctx, body, title)
		if ok && s.acceptable(summary) {
			lgr.Printf("[INFO] %s summary successful", p.Name())
			return Result{Summary: summary, Provider: p.Name(), OK: true}
		}

		if i < len(s.providers)-1 {
			lgr.Printf("[WARN] %s returned incomplete output, trying fallback", p.Name())
		}
	}

	lgr.Printf("[ERROR] all providers failed to generate summary for %q", title)
	return Result{}
}

func (s *Summarizer) acceptable(summary string) bool {
	return utf8.RuneCountInString(summary) > s.minLength
}
