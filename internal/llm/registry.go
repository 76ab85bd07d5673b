package llm

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"parley/backend/internal/model"
)

// UnsupportedProviderError is returned when a credential declares a provider
// type no adapter implementation has been registered for. It is a
// configuration bug, never retried.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %q", e.Provider)
}

// Factory instantiates an adapter from per-credential configuration.
type Factory func(cfg Config) (Adapter, error)

// Registry maps a credential's declared provider type to the adapter
// implementation for it. Adapters are instantiated per resolve, never cached:
// credential configuration can change between requests, so freshness wins
// over reuse.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	defaults  Config

	// limiters outlive individual resolves so a credential's RPM budget is
	// shared by every request made with it.
	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

// NewRegistry builds an empty registry. Defaults (timeout, retry policy) are
// merged into every resolved adapter's configuration.
func NewRegistry(defaults Config) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		defaults:  defaults,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// NewDefaultRegistry builds a registry with all built-in provider types.
// "claude" and "anthropic" are aliases, as are "custom" and
// "openai-compatible".
func NewDefaultRegistry(defaults Config) *Registry {
	r := NewRegistry(defaults)
	r.Register("openai", NewOpenAIAdapter)
	r.Register("anthropic", NewAnthropicAdapter)
	r.Register("claude", NewAnthropicAdapter)
	r.Register("ollama", NewOllamaAdapter)
	r.Register("openai-compatible", NewGatewayAdapter)
	r.Register("custom", NewGatewayAdapter)
	return r
}

// Register adds or replaces the factory for a provider type. New provider
// types plug in here without touching existing adapters.
func (r *Registry) Register(provider string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(provider)] = factory
}

// Providers lists the registered provider types.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	return out
}

// Resolve instantiates a ready-to-use adapter for the given credential and
// its decrypted secret.
func (r *Registry) Resolve(cred *model.Credential, secret string) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[strings.ToLower(cred.Provider)]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedProviderError{Provider: cred.Provider}
	}

	cfg := r.defaults
	cfg.APIKey = secret
	cfg.BaseURL = cred.BaseURL
	cfg.RPMLimit = cred.RPMLimit
	adapter, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	if cred.RPMLimit > 0 {
		adapter = &rateLimitedAdapter{
			inner:   adapter,
			limiter: r.limiterFor(cred.ID, cred.RPMLimit),
		}
	}
	return adapter, nil
}

// limiterFor returns the shared limiter for a credential, creating it on
// first use and retuning it when the stored RPM changed.
func (r *Registry) limiterFor(credentialID string, rpm int) *rate.Limiter {
	limit := rate.Limit(float64(rpm) / 60.0)
	r.limitersMu.Lock()
	defer r.limitersMu.Unlock()
	limiter, ok := r.limiters[credentialID]
	if !ok {
		limiter = rate.NewLimiter(limit, 1)
		r.limiters[credentialID] = limiter
		return limiter
	}
	if limiter.Limit() != limit {
		limiter.SetLimit(limit)
	}
	return limiter
}
