package llm

import (
	"context"
	"time"
)

// This package defines the normalized chat contract every provider adapter
// implements, plus the adapters themselves. Callers never branch on vendor
// identity: they hold an Adapter and speak ChatRequest/ChatResponse.

// ChatMessage is a single (role, content) pair in a normalized request.
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is the vendor-agnostic representation of one chat call. It is
// built fresh per call from the conversation's system prompt and message
// history and is never persisted.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float32 // 0 means provider default
	MaxTokens   int     // 0 means provider default
}

// Usage is the token accounting a provider reported (or, when Estimated is
// set, that was derived from text length because the provider reported none).
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Estimated        bool
}

// ChatResponse is a complete non-streaming answer. Usage is nil when the
// vendor did not report token counts; the accountant estimates in that case.
type ChatResponse struct {
	Content      string
	Model        string
	Usage        *Usage
	FinishReason string
}

// StreamChunk is one element of a streaming response sequence. An adapter
// emits zero or more content chunks followed by exactly one terminal chunk:
// either Done with the final Usage (which may be nil), or Err. The adapter
// closes the channel after the terminal chunk.
type StreamChunk struct {
	Content string
	Done    bool
	Usage   *Usage
	Err     error
}

// Adapter is the capability set every provider variant implements.
//
// Chat blocks until the vendor returns a complete answer. StreamChat relays
// the vendor's incremental output over ch; partial content already emitted
// before a failure stays emitted — a mid-stream failure terminates the
// sequence with a PartialStream error, it does not rewind it.
type Adapter interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk)
}

// Config is the adapter-bound configuration resolved from a credential.
// RPMLimit is enforced by the registry, which paces calls per credential
// before they reach the adapter; 0 means unlimited.
type Config struct {
	APIKey   string
	BaseURL  string
	RPMLimit int
	Timeout  time.Duration
	Retry    RetryPolicy
}

const defaultTimeout = 120 * time.Second

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// sendChunk delivers a chunk unless the consumer's context is gone. It
// reports whether the chunk was delivered.
func sendChunk(ctx context.Context, ch chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// finishStream emits the terminal chunk for a failed stream. When content has
// already been delivered the error is reclassified as PartialStream so
// callers can tell an aborted answer from one that never started.
func finishStream(ctx context.Context, ch chan<- StreamChunk, err error, contentSent bool) {
	if contentSent {
		err = partialStreamError(err)
	}
	sendChunk(ctx, ch, StreamChunk{Err: err})
}
