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
)

func TestNewOpenAIAdapter_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIAdapter(Config{})
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAuth, pe.Kind)
}

func TestNewGatewayAdapter_RequiresBaseURL(t *testing.T) {
	_, err := NewGatewayAdapter(Config{APIKey: "sk-test"})
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindInvalidRequest, pe.Kind)
}

func TestOpenAIAdapter_Chat(t *testing.T) {
	var capturedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		capturedAuth = r.Header.Get("Authorization")

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-2024-08-06",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 15, "completion_tokens": 3, "total_tokens": 18}
		}`))
	}))
	defer server.Close()

	adapter, err := NewGatewayAdapter(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	resp, err := adapter.Chat(context.Background(), &ChatRequest{
		Model: "gpt-4o",
		Messages: []ChatMessage{
			{Role: "system", Content: "Be brief."},
			{Role: "user", Content: "Hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", capturedAuth)
	assert.Equal(t, "Hi!", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
}

func TestOpenAIAdapter_Chat_AuthFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	adapter, err := NewGatewayAdapter(Config{
		APIKey:  "sk-bad",
		BaseURL: server.URL + "/v1",
		Retry:   RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
	})
	require.NoError(t, err)

	_, err = adapter.Chat(context.Background(), &ChatRequest{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAuth, pe.Kind)
	assert.Equal(t, http.StatusUnauthorized, pe.VendorStatus)
}

func TestOpenAIAdapter_Chat_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "server overloaded", "type": "server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "chat.completion",
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "recovered"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`))
	}))
	defer server.Close()

	adapter, err := NewGatewayAdapter(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
		Retry:   RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
	})
	require.NoError(t, err)

	resp, err := adapter.Chat(context.Background(), &ChatRequest{Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIAdapter_StreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Stream        bool `json:"stream"`
			StreamOptions *struct {
				IncludeUsage bool `json:"include_usage"`
			} `json:"stream_options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)
		require.NotNil(t, body.StreamOptions)
		assert.True(t, body.StreamOptions.IncludeUsage)

		w.Header().Set("Content-Type", "text/event-stream")
		frames := []string{
			`{"object": "chat.completion.chunk", "choices": [{"index": 0, "delta": {"content": "Hel"}}]}`,
			`{"object": "chat.completion.chunk", "choices": [{"index": 0, "delta": {"content": "lo"}}]}`,
			`{"object": "chat.completion.chunk", "choices": [], "usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}}`,
		}
		for _, frame := range frames {
			_, _ = w.Write([]byte("data: " + frame + "\n\n"))
		}
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	adapter, err := NewGatewayAdapter(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	ch := make(chan StreamChunk)
	go adapter.StreamChat(context.Background(), &ChatRequest{Model: "gpt-4o"}, ch)
	chunks := collectChunks(ch)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Hel", chunks[0].Content)
	assert.Equal(t, "lo", chunks[1].Content)
	assert.True(t, chunks[2].Done)
	require.NotNil(t, chunks[2].Usage)
	assert.Equal(t, 7, chunks[2].Usage.TotalTokens)
}

func TestOpenAIAdapter_StreamChat_EstablishmentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "tokens"}}`))
	}))
	defer server.Close()

	adapter, err := NewGatewayAdapter(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
		Retry:   RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond},
	})
	require.NoError(t, err)

	ch := make(chan StreamChunk)
	go adapter.StreamChat(context.Background(), &ChatRequest{Model: "gpt-4o"}, ch)
	chunks := collectChunks(ch)

	require.Len(t, chunks, 1)
	var pe *ProviderError
	require.ErrorAs(t, chunks[0].Err, &pe)
	assert.Equal(t, KindRateLimit, pe.Kind)
}
