package llm

import (
	"context"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/sportswatch/pkg/config"
)

// OpenAI generates summaries with any OpenAI compatible chat completion API
type OpenAI struct {
	client *openai.Client
	config config.ProviderConfig
}

// NewOpenAI makes openai provider, it is disabled if no api key set
func NewOpenAI(cfg config.ProviderConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientConfig), config: cfg}
}

// Name returns provider name
func (o *OpenAI) Name() string { return "openai" }

// Enabled reports whether api key is configured
func (o *OpenAI) Enabled() bool { return o.config.APIKey != "" }

// GenerateSummary generates branded summary for the article
func (o *OpenAI) GenerateSummary(ctx context.Context, body, title string) (string, bool) {
	if !o.Enabled() {
		lgr.Printf("[WARN] openai api key not available")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Temperature: float32(o.config.Temperature),
		MaxTokens:   o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: summaryPrompt(title, body)},
		},
	}

	lgr.Printf("[DEBUG] calling openai for summary of %q", title)
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		lgr.Printf("[WARN] openai summary failed: %v", err)
		return "", false
	}
	if len(resp.Choices) == 0 {
		lgr.Printf("[WARN] openai returned empty response")
		return "", false
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	lgr.Printf("[INFO] openai generated summary: %s", preview(summary, 50))
	return summary, true
}
