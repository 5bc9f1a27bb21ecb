package llm

import (
	"context"
	"fmt"
)

// Provider generates short branded summaries. Implementations never fail the caller,
// any problem is reported as ok=false.
type Provider interface {
	Name() string
	Enabled() bool
	GenerateSummary(ctx context.Context, body, title string) (summary string, ok bool)
}

// ThumbnailPrompter generates an image description for a post thumbnail
type ThumbnailPrompter interface {
	GenerateThumbnailPrompt(ctx context.Context, title, summary string) (prompt string, ok bool)
}

const summarySystemPrompt = "You are a sports content writer focused on creating engaging, conversion-optimized summaries."

func summaryPrompt(title, body string) string {
	return fmt.Sprintf(`Create a compelling, branded summary for this sports article:

Title: %s

Content: %s

Generate a 2-3 sentence summary that:
- Highlights key points and excitement
- Uses energetic sports language
- Includes relevant emojis (⚽🏀🏈⚾🎾)
- Drives reader interest and engagement
- Stays under 150 characters for social media`, title, body)
}

func thumbnailPrompt(title, summary string) string {
	return fmt.Sprintf(`Based on this sports article, create a detailed thumbnail image description:

Title: %s
Summary: %s

Generate a vivid, specific image description (50-75 words) that:
- Describes a dynamic, eye-catching sports scene
- Includes specific visual elements, colors, and action
- Emphasizes energy and excitement
- Would work well as a blog thumbnail or social media image`, title, summary)
}

// preview cuts s to n runes for log messages
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
