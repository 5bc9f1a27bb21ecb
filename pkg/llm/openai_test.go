package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sportswatch/pkg/config"
)

func TestOpenAI_GenerateSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, 200, req.MaxTokens)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "sports content writer")
		assert.Contains(t, req.Messages[1].Content, "Title: Final Whistle")

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "🏀 Buzzer-beater sends the home crowd wild!\n"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := NewOpenAI(config.ProviderConfig{
		APIKey: "test-key", Endpoint: server.URL + "/v1", Model: "gpt-3.5-turbo",
		Temperature: 0.7, MaxTokens: 200, Timeout: 5 * time.Second,
	})
	summary, ok := o.GenerateSummary(context.Background(), "Game recap", "Final Whistle")
	require.True(t, ok)
	assert.Equal(t, "🏀 Buzzer-beater sends the home crowd wild!", summary)
}

func TestOpenAI_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
		}))
		defer server.Close()

		o := NewOpenAI(config.ProviderConfig{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m", Timeout: time.Second})
		summary, ok := o.GenerateSummary(context.Background(), "b", "t")
		assert.False(t, ok)
		assert.Empty(t, summary)
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
		}))
		defer server.Close()

		o := NewOpenAI(config.ProviderConfig{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m", Timeout: time.Second})
		_, ok := o.GenerateSummary(context.Background(), "b", "t")
		assert.False(t, ok)
	})

	t.Run("not configured", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		o := NewOpenAI(config.ProviderConfig{Endpoint: server.URL + "/v1", Model: "m", Timeout: time.Second})
		assert.False(t, o.Enabled())
		_, ok := o.GenerateSummary(context.Background(), "b", "t")
		assert.False(t, ok)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})
}
