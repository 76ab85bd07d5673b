package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimitedAdapter gates every call on a token bucket filled at the
// credential's requests-per-minute rate. The bucket lives in the registry,
// keyed by credential ID, so the limit holds across resolves even though
// adapter instances themselves are rebuilt per call.
type rateLimitedAdapter struct {
	inner   Adapter
	limiter *rate.Limiter
}

func (a *rateLimitedAdapter) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, limiterWaitError(err)
	}
	return a.inner.Chat(ctx, req)
}

func (a *rateLimitedAdapter) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk) {
	if err := a.limiter.Wait(ctx); err != nil {
		sendChunk(ctx, ch, StreamChunk{Err: limiterWaitError(err)})
		close(ch)
		return
	}
	a.inner.StreamChat(ctx, req, ch)
}

// limiterWaitError classifies an aborted wait for a request slot. The vendor
// was never contacted, so this is the local analogue of a 429.
func limiterWaitError(err error) *ProviderError {
	return &ProviderError{
		Kind:    KindRateLimit,
		Message: "credential rate limit: " + err.Error(),
		Err:     err,
	}
}
