package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openAIAdapter speaks the OpenAI chat completions protocol. It backs two
// registered provider types: "openai" (cloud API) and "openai-compatible"
// (gateways like OneAPI or vLLM that expose the same schema under a custom
// base URL). Only the configuration differs, never the wire handling.
type openAIAdapter struct {
	client *openai.Client
	cfg    Config
	vendor string
}

// NewOpenAIAdapter builds an adapter for the OpenAI cloud API. BaseURL is
// optional (Azure-style fronts override it).
func NewOpenAIAdapter(cfg Config) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{Kind: KindAuth, Message: "openai requires an API key"}
	}
	return newOpenAICompatible(cfg, "openai"), nil
}

// NewGatewayAdapter builds an adapter for an arbitrary OpenAI-compatible
// endpoint. Both the API key and the base URL are mandatory.
func NewGatewayAdapter(cfg Config) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{Kind: KindAuth, Message: "openai-compatible gateway requires an API key"}
	}
	if cfg.BaseURL == "" {
		return nil, &ProviderError{Kind: KindInvalidRequest, Message: "openai-compatible gateway requires a base URL"}
	}
	return newOpenAICompatible(cfg, "openai-compatible"), nil
}

func newOpenAICompatible(cfg Config, vendor string) *openAIAdapter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.timeout()}
	return &openAIAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		vendor: vendor,
	}
}

func (a *openAIAdapter) buildRequest(req *ChatRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

func (a *openAIAdapter) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	resp, err := withRetry(ctx, a.cfg.Retry, func() (openai.ChatCompletionResponse, error) {
		resp, err := a.client.CreateChatCompletion(ctx, a.buildRequest(req))
		if err != nil {
			return openai.ChatCompletionResponse{}, mapOpenAIError(err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Kind: KindTransient, Message: "vendor returned no choices"}
	}

	out := &ChatResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: string(resp.Choices[0].FinishReason),
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	slog.Debug("chat completed", "vendor", a.vendor, "model", req.Model, "tokens", resp.Usage.TotalTokens)
	return out, nil
}

func (a *openAIAdapter) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk) {
	defer close(ch)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	wireReq := a.buildRequest(req)
	wireReq.Stream = true
	wireReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	// Retries cover stream establishment only; once content flows a failure
	// must surface, not replay already-delivered text.
	stream, err := withRetry(ctx, a.cfg.Retry, func() (*openai.ChatCompletionStream, error) {
		stream, err := a.client.CreateChatCompletionStream(ctx, wireReq)
		if err != nil {
			return nil, mapOpenAIError(err)
		}
		return stream, nil
	})
	if err != nil {
		sendChunk(ctx, ch, StreamChunk{Err: err})
		return
	}
	defer stream.Close()

	var usage *Usage
	contentSent := false
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			sendChunk(ctx, ch, StreamChunk{Done: true, Usage: usage})
			return
		}
		if err != nil {
			finishStream(ctx, ch, mapOpenAIError(err), contentSent)
			return
		}
		if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
			usage = &Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			}
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		if !sendChunk(ctx, ch, StreamChunk{Content: resp.Choices[0].Delta.Content}) {
			return
		}
		contentSent = true
	}
}

// mapOpenAIError translates go-openai errors into the normalized taxonomy.
func mapOpenAIError(err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return statusError(reqErr.HTTPStatusCode, reqErr.Error())
	}
	return transportError(err)
}
