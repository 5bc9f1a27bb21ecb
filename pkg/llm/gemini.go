package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/sportswatch/pkg/config"
)

// Gemini calls the generateContent REST endpoint of Google Gemini
type Gemini struct {
	client *http.Client
	config config.ProviderConfig
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// NewGemini makes gemini provider, it is disabled if no api key set
func NewGemini(cfg config.ProviderConfig) *Gemini {
	return &Gemini{client: &http.Client{Timeout: cfg.Timeout}, config: cfg}
}

// Name returns provider name
func (g *Gemini) Name() string { return "gemini" }

// Enabled reports whether api key is configured
func (g *Gemini) Enabled() bool { return g.config.APIKey != "" }

// GenerateSummary generates branded summary for the article
func (g *Gemini) GenerateSummary(ctx context.Context, body, title string) (string, bool) {
	if !g.Enabled() {
		lgr.Printf("[WARN] gemini api key not available")
		return "", false
	}
	lgr.Printf("[DEBUG] calling gemini for summary of %q", title)
	text, err := g.generate(ctx, summaryPrompt(title, body), g.config.Temperature, g.config.MaxTokens)
	if err != nil {
		lgr.Printf("[WARN] gemini summary failed: %v", err)
		return "", false
	}
	lgr.Printf("[INFO] gemini generated summary: %s", preview(text, 50))
	return text, true
}

// GenerateThumbnailPrompt generates thumbnail image description
func (g *Gemini) GenerateThumbnailPrompt(ctx context.Context, title, summary string) (string, bool) {
	if !g.Enabled() {
		return "", false
	}
	text, err := g.generate(ctx, thumbnailPrompt(title, summary), 0.8, 150)
	if err != nil {
		lgr.Printf("[WARN] gemini thumbnail prompt failed: %v", err)
		return "", false
	}
	lgr.Printf("[INFO] gemini generated thumbnail prompt: %s", preview(text, 50))
	return text, true
}

func (g *Gemini) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	var reqBody geminiRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	reqBody.GenerationConfig.Temperature = temperature
	reqBody.GenerationConfig.MaxOutputTokens = maxTokens

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text), nil
}
