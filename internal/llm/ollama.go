package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const ollamaDefaultBaseURL = "http://localhost:11434"

// ollamaAdapter speaks the native Ollama chat API: no authentication,
// newline-delimited JSON streaming, and eval counts instead of token usage.
// Local inference has zero monetary cost; the accountant handles that.
type ollamaAdapter struct {
	client  *http.Client
	cfg     Config
	baseURL string
}

// NewOllamaAdapter builds an adapter for a local Ollama server.
func NewOllamaAdapter(cfg Config) (Adapter, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	return &ollamaAdapter{
		client:  &http.Client{Timeout: cfg.timeout()},
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type ollamaRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaChunk covers both the sync response and each stream line; the final
// line of a stream carries the eval counts.
type ollamaChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	Model           string `json:"model"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

func (a *ollamaAdapter) buildRequest(req *ChatRequest, stream bool) *ollamaRequest {
	out := &ollamaRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   stream,
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		out.Options = &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}
	return out
}

func (a *ollamaAdapter) post(ctx context.Context, body *ollamaRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Kind: KindInvalidRequest, Message: "could not marshal request: " + err.Error(), Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Kind: KindInvalidRequest, Message: err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		message := strings.TrimSpace(string(raw))
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return nil, statusError(resp.StatusCode, message)
	}
	return resp, nil
}

func usageFromOllama(chunk *ollamaChunk) *Usage {
	if chunk.PromptEvalCount == 0 && chunk.EvalCount == 0 {
		return nil
	}
	return &Usage{
		PromptTokens:     chunk.PromptEvalCount,
		CompletionTokens: chunk.EvalCount,
		TotalTokens:      chunk.PromptEvalCount + chunk.EvalCount,
	}
}

func (a *ollamaAdapter) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
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

	var decoded ollamaChunk
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Kind: KindTransient, Message: "could not decode response: " + err.Error(), Err: err}
	}
	if decoded.Error != "" {
		return nil, &ProviderError{Kind: KindTransient, Message: decoded.Error}
	}
	return &ChatResponse{
		Content:      decoded.Message.Content,
		Model:        decoded.Model,
		Usage:        usageFromOllama(&decoded),
		FinishReason: decoded.DoneReason,
	}, nil
}

func (a *ollamaAdapter) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk) {
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

	contentSent := false
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			finishStream(ctx, ch, &ProviderError{Kind: KindTransient, Message: "could not decode stream chunk: " + err.Error(), Err: err}, contentSent)
			return
		}
		if chunk.Error != "" {
			finishStream(ctx, ch, &ProviderError{Kind: KindTransient, Message: chunk.Error}, contentSent)
			return
		}
		if chunk.Done {
			sendChunk(ctx, ch, StreamChunk{Done: true, Usage: usageFromOllama(&chunk)})
			return
		}
		if chunk.Message.Content == "" {
			continue
		}
		if !sendChunk(ctx, ch, StreamChunk{Content: chunk.Message.Content}) {
			return
		}
		contentSent = true
	}
	if err := scanner.Err(); err != nil {
		finishStream(ctx, ch, transportError(err), contentSent)
		return
	}
	finishStream(ctx, ch, &ProviderError{Kind: KindTransient, Message: "stream ended without a final chunk"}, contentSent)
}
