package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	// The Anthropic messages API requires max_tokens; used when the caller
	// did not set one.
	anthropicDefaultMaxTokens = 4096
)

// anthropicAdapter speaks the Anthropic messages API directly. The system
// prompt travels in a separate top-level field, streaming is SSE-framed, and
// usage arrives split across the first and last events.
type anthropicAdapter struct {
	client  *http.Client
	cfg     Config
	baseURL string
}

// NewAnthropicAdapter builds an adapter for the Anthropic cloud API.
func NewAnthropicAdapter(cfg Config) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{Kind: KindAuth, Message: "anthropic requires an API key"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	return &anthropicAdapter{
		client:  &http.Client{Timeout: cfg.timeout()},
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      anthropicUsage `json:"usage"`
}

type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// anthropicEvent is the union of the SSE event payloads we care about.
type anthropicEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	Message struct {
		Usage anthropicUsage `json:"usage"`
	} `json:"message"`
	Usage anthropicUsage `json:"usage"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// convertMessages splits system messages out of the history, as the
// messages API rejects a system role inside the messages array.
func (a *anthropicAdapter) convertMessages(msgs []ChatMessage) (string, []ChatMessage) {
	var system []string
	chat := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		chat = append(chat, m)
	}
	return strings.Join(system, "\n\n"), chat
}

func (a *anthropicAdapter) buildRequest(req *ChatRequest, stream bool) *anthropicRequest {
	system, messages := a.convertMessages(req.Messages)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	return &anthropicRequest{
		Model:       req.Model,
		System:      system,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Stream:      stream,
	}
}

func (a *anthropicAdapter) post(ctx context.Context, body *anthropicRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Kind: KindInvalidRequest, Message: "could not marshal request: " + err.Error(), Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Kind: KindInvalidRequest, Message: err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		message := strings.TrimSpace(string(raw))
		var errBody anthropicErrorBody
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error.Message != "" {
			message = errBody.Error.Message
		}
		pe := statusError(resp.StatusCode, message)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
				pe.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, pe
	}
	return resp, nil
}

func (a *anthropicAdapter) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	body := a.buildRequest(req, false)
	resp, err := withRetry(ctx, a.cfg.Retry, func() (*http.Response, error) {
		return a.post(ctx, body)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Kind: KindTransient, Message: "could not decode response: " + err.Error(), Err: err}
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	out := &ChatResponse{
		Content:      text.String(),
		Model:        decoded.Model,
		FinishReason: decoded.StopReason,
	}
	if decoded.Usage.InputTokens > 0 || decoded.Usage.OutputTokens > 0 {
		out.Usage = &Usage{
			PromptTokens:     decoded.Usage.InputTokens,
			CompletionTokens: decoded.Usage.OutputTokens,
			TotalTokens:      decoded.Usage.InputTokens + decoded.Usage.OutputTokens,
		}
	}
	return out, nil
}

func (a *anthropicAdapter) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk) {
	defer close(ch)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	body := a.buildRequest(req, true)
	resp, err := withRetry(ctx, a.cfg.Retry, func() (*http.Response, error) {
		return a.post(ctx, body)
	})
	if err != nil {
		sendChunk(ctx, ch, StreamChunk{Err: err})
		return
	}
	defer resp.Body.Close()

	var (
		usage       anthropicUsage
		contentSent bool
		stopped     bool
	)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var event anthropicEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		switch event.Type {
		case "message_start":
			usage.InputTokens = event.Message.Usage.InputTokens
		case "content_block_delta":
			if event.Delta.Type != "text_delta" || event.Delta.Text == "" {
				continue
			}
			if !sendChunk(ctx, ch, StreamChunk{Content: event.Delta.Text}) {
				return
			}
			contentSent = true
		case "message_delta":
			usage.OutputTokens = event.Usage.OutputTokens
		case "message_stop":
			stopped = true
		case "error":
			finishStream(ctx, ch, &ProviderError{
				Kind:    KindTransient,
				Message: fmt.Sprintf("%s: %s", event.Error.Type, event.Error.Message),
			}, contentSent)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		finishStream(ctx, ch, transportError(err), contentSent)
		return
	}
	if !stopped {
		finishStream(ctx, ch, &ProviderError{Kind: KindTransient, Message: "stream ended without message_stop"}, contentSent)
		return
	}

	var final *Usage
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		final = &Usage{
			PromptTokens:     usage.InputTokens,
			CompletionTokens: usage.OutputTokens,
			TotalTokens:      usage.InputTokens + usage.OutputTokens,
		}
	}
	sendChunk(ctx, ch, StreamChunk{Done: true, Usage: final})
}
