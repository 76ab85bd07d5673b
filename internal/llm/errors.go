package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies a provider failure well enough for callers to decide
// between "try again", "fix your API key" and "fix your request".
type ErrorKind string

const (
	// KindAuth covers 401/403-equivalent vendor rejections. Deterministic,
	// never retried.
	KindAuth ErrorKind = "auth"
	// KindInvalidRequest covers 400-equivalent malformed prompt/params.
	// Deterministic, never retried.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindRateLimit covers vendor throttling. Retryable with backoff and may
	// carry a vendor-specified retry-after hint.
	KindRateLimit ErrorKind = "rate_limit"
	// KindTransient covers connection failures and 5xx responses. Retryable
	// before any content has been streamed.
	KindTransient ErrorKind = "transient"
	// KindTimeout means the bounded wait for the vendor expired.
	KindTimeout ErrorKind = "timeout"
	// KindPartialStream means the stream delivered some content and then
	// failed. Never retried automatically: the delivered prefix is preserved
	// and the caller decides whether to regenerate.
	KindPartialStream ErrorKind = "partial_stream"
)

// ProviderError is the single error type adapters surface. VendorStatus is
// the upstream HTTP status when one exists, 0 otherwise.
type ProviderError struct {
	Kind         ErrorKind
	VendorStatus int
	Message      string
	RetryAfter   time.Duration
	Err          error
}

func (e *ProviderError) Error() string {
	if e.VendorStatus != 0 {
		return fmt.Sprintf("provider error (%s, status %d): %s", e.Kind, e.VendorStatus, e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the failure may succeed on a fresh attempt.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindTransient, KindTimeout:
		return true
	default:
		return false
	}
}

// kindFromStatus maps an upstream HTTP status to an error kind.
func kindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 500:
		return KindTransient
	default:
		return KindInvalidRequest
	}
}

// statusError builds a ProviderError for a non-2xx vendor response.
func statusError(status int, message string) *ProviderError {
	return &ProviderError{
		Kind:         kindFromStatus(status),
		VendorStatus: status,
		Message:      message,
	}
}

// transportError wraps a failure that happened below HTTP: connection resets,
// DNS, or an expired deadline.
func transportError(err error) *ProviderError {
	kind := KindTransient
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &ProviderError{Kind: kind, Message: err.Error(), Err: err}
}

// partialStreamError reclassifies a mid-stream failure once content has been
// delivered, preserving the underlying cause for errors.As/Is inspection.
func partialStreamError(err error) *ProviderError {
	pe := &ProviderError{
		Kind:    KindPartialStream,
		Message: "stream aborted after partial content: " + err.Error(),
		Err:     err,
	}
	var inner *ProviderError
	if errors.As(err, &inner) {
		pe.VendorStatus = inner.VendorStatus
	}
	return pe
}

// asProviderError normalizes any error into a ProviderError, leaving ones
// that already are untouched.
func asProviderError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return transportError(err)
}
