package llm

import (
	"context"
	"time"
)

// RetryPolicy bounds how adapters retry transient failures. Retries happen
// only before any content has been streamed to the caller; once a stream has
// started emitting, failures surface immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first. Values
	// below 1 mean a single attempt.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; it doubles on each
	// further attempt. A vendor retry-after hint overrides it.
	BaseDelay time.Duration
}

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	return base << attempt
}

// withRetry runs fn with bounded exponential backoff. Only errors a
// ProviderError marks retryable are tried again; auth and invalid-request
// failures are deterministic and come back on the first attempt.
func withRetry[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < policy.attempts(); attempt++ {
		if attempt > 0 {
			wait := policy.delay(attempt - 1)
			var pe *ProviderError
			if pe = asProviderError(lastErr); pe.RetryAfter > 0 {
				wait = pe.RetryAfter
			}
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return zero, transportError(ctx.Err())
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !asProviderError(err).Retryable() {
			break
		}
	}
	return zero, lastErr
}
