package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicAdapter_RequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicAdapter(Config{})
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAuth, pe.Kind)
}

func TestAnthropicAdapter_Chat(t *testing.T) {
	var capturedBody anthropicRequest
	var capturedKey, capturedVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		capturedKey = r.Header.Get("x-api-key")
		capturedVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "Bonjour."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 20, "output_tokens": 4}
		}`))
	}))
	defer server.Close()

	adapter, err := NewAnthropicAdapter(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := adapter.Chat(context.Background(), &ChatRequest{
		Model: "claude-3-5-sonnet-20241022",
		Messages: []ChatMessage{
			{Role: "system", Content: "Answer in French."},
			{Role: "user", Content: "Hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-test", capturedKey)
	assert.Equal(t, anthropicVersion, capturedVersion)

	// The system message moves to the dedicated field and leaves the array.
	assert.Equal(t, "Answer in French.", capturedBody.System)
	require.Len(t, capturedBody.Messages, 1)
	assert.Equal(t, "user", capturedBody.Messages[0].Role)
	// max_tokens is mandatory for this API, so an unset value gets the default.
	assert.Equal(t, anthropicDefaultMaxTokens, capturedBody.MaxTokens)

	assert.Equal(t, "Bonjour.", resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 20, resp.Usage.PromptTokens)
	assert.Equal(t, 4, resp.Usage.CompletionTokens)
	assert.Equal(t, 24, resp.Usage.TotalTokens)
}

func TestAnthropicAdapter_Chat_RateLimitCarriesRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "throttled"}}`))
	}))
	defer server.Close()

	adapter, err := NewAnthropicAdapter(Config{
		APIKey:  "sk-ant-test",
		BaseURL: server.URL,
		Retry:   RetryPolicy{MaxAttempts: 1},
	})
	require.NoError(t, err)

	_, err = adapter.Chat(context.Background(), &ChatRequest{Model: "claude-3-haiku"})
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindRateLimit, pe.Kind)
	assert.Equal(t, http.StatusTooManyRequests, pe.VendorStatus)
	assert.Equal(t, "throttled", pe.Message)
	assert.Equal(t, 7*time.Second, pe.RetryAfter)
}

func TestAnthropicAdapter_StreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		frames := []string{
			`event: message_start`,
			`data: {"type": "message_start", "message": {"usage": {"input_tokens": 9}}}`,
			``,
			`event: content_block_delta`,
			`data: {"type": "content_block_delta", "delta": {"type": "text_delta", "text": "Hel"}}`,
			``,
			`event: content_block_delta`,
			`data: {"type": "content_block_delta", "delta": {"type": "text_delta", "text": "lo"}}`,
			``,
			`event: message_delta`,
			`data: {"type": "message_delta", "usage": {"output_tokens": 2}}`,
			``,
			`event: message_stop`,
			`data: {"type": "message_stop"}`,
			``,
		}
		for _, frame := range frames {
			_, _ = w.Write([]byte(frame + "\n"))
		}
	}))
	defer server.Close()

	adapter, err := NewAnthropicAdapter(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	require.NoError(t, err)

	ch := make(chan StreamChunk)
	go adapter.StreamChat(context.Background(), &ChatRequest{Model: "claude-3-haiku"}, ch)
	chunks := collectChunks(ch)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Hel", chunks[0].Content)
	assert.Equal(t, "lo", chunks[1].Content)
	assert.True(t, chunks[2].Done)
	require.NotNil(t, chunks[2].Usage)
	assert.Equal(t, 9, chunks[2].Usage.PromptTokens)
	assert.Equal(t, 2, chunks[2].Usage.CompletionTokens)
	assert.Equal(t, 11, chunks[2].Usage.TotalTokens)
}

func TestAnthropicAdapter_StreamChat_ErrorEventAfterContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(`data: {"type": "content_block_delta", "delta": {"type": "text_delta", "text": "so far"}}` + "\n\n"))
		_, _ = w.Write([]byte(`data: {"type": "error", "error": {"type": "overloaded_error", "message": "overloaded"}}` + "\n\n"))
	}))
	defer server.Close()

	adapter, err := NewAnthropicAdapter(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	require.NoError(t, err)

	ch := make(chan StreamChunk)
	go adapter.StreamChat(context.Background(), &ChatRequest{Model: "claude-3-haiku"}, ch)
	chunks := collectChunks(ch)

	require.Len(t, chunks, 2)
	assert.Equal(t, "so far", chunks[0].Content)

	var pe *ProviderError
	require.ErrorAs(t, chunks[1].Err, &pe)
	assert.Equal(t, KindPartialStream, pe.Kind)
	assert.Contains(t, pe.Message, "overloaded")
}

func TestAnthropicAdapter_StreamChat_TruncatedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		// Stream ends without message_stop.
		_, _ = w.Write([]byte(`data: {"type": "content_block_delta", "delta": {"type": "text_delta", "text": "cut"}}` + "\n\n"))
	}))
	defer server.Close()

	adapter, err := NewAnthropicAdapter(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	require.NoError(t, err)

	ch := make(chan StreamChunk)
	go adapter.StreamChat(context.Background(), &ChatRequest{Model: "claude-3-haiku"}, ch)
	chunks := collectChunks(ch)

	require.Len(t, chunks, 2)
	assert.Equal(t, "cut", chunks[0].Content)

	var pe *ProviderError
	require.ErrorAs(t, chunks[1].Err, &pe)
	assert.Equal(t, KindPartialStream, pe.Kind)
}
