package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sportswatch/pkg/config"
)

func geminiConfig(endpoint string) config.ProviderConfig {
	return config.ProviderConfig{APIKey: "gem-key", Endpoint: endpoint, Temperature: 0.7, MaxTokens: 200, Timeout: 5 * time.Second}
}

func TestGemini_GenerateSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "gem-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if !assert.Len(t, req.Contents, 1) || !assert.Len(t, req.Contents[0].Parts, 1) {
			return
		}
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Title: Derby Day")
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Content: City beat United")
		assert.Contains(t, req.Contents[0].Parts[0].Text, "emojis")
		assert.InDelta(t, 0.7, req.GenerationConfig.Temperature, 0.001)
		assert.Equal(t, 200, req.GenerationConfig.MaxOutputTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  ⚽ City storm the derby with a late winner! 🔥  "}]}}]}`))
	}))
	defer server.Close()

	g := NewGemini(geminiConfig(server.URL))
	summary, ok := g.GenerateSummary(context.Background(), "City beat United", "Derby Day")
	require.True(t, ok)
	assert.Equal(t, "⚽ City storm the derby with a late winner! 🔥", summary)
}

func TestGemini_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{name: "no candidates", handler: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}},
		{name: "no parts", handler: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
		}},
		{name: "invalid json", handler: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{name: "timeout", handler: func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"late"}]}}]}`))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			cfg := geminiConfig(server.URL)
			cfg.Timeout = 50 * time.Millisecond
			summary, ok := NewGemini(cfg).GenerateSummary(context.Background(), "body", "title")
			assert.False(t, ok)
			assert.Empty(t, summary)
		})
	}
}

func TestGemini_NotConfigured(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	cfg := geminiConfig(server.URL)
	cfg.APIKey = ""
	g := NewGemini(cfg)
	assert.False(t, g.Enabled())

	summary, ok := g.GenerateSummary(context.Background(), "body", "title")
	assert.False(t, ok)
	assert.Empty(t, summary)

	prompt, ok := g.GenerateThumbnailPrompt(context.Background(), "title", "summary")
	assert.False(t, ok)
	assert.Empty(t, prompt)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGemini_GenerateThumbnailPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if !assert.Len(t, req.Contents, 1) {
			return
		}
		assert.Contains(t, req.Contents[0].Parts[0].Text, "thumbnail image description")
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Summary: great match")
		assert.InDelta(t, 0.8, req.GenerationConfig.Temperature, 0.001)
		assert.Equal(t, 150, req.GenerationConfig.MaxOutputTokens)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A striker mid-volley under floodlights"}]}}]}`))
	}))
	defer server.Close()

	prompt, ok := NewGemini(geminiConfig(server.URL)).GenerateThumbnailPrompt(context.Background(), "Final", "great match")
	require.True(t, ok)
	assert.Equal(t, "A striker mid-volley under floodlights", prompt)
}
