// ABOUTME: Provider registry for mapping API types to provider factories
// ABOUTME: Thread-safe registration and lookup of Provider implementations

package ai

import (
	"context"
	"sync"
)

// ProviderFactory creates a Provider given a base URL override (optional).
type ProviderFactory func(baseURL string) Provider

// Provider is the interface all LLM providers implement.
type Provider interface {
	// Api returns the provider's API identifier.
	Api() Api

	// Complete performs a single blocking completion call. Provider-level
	// failures (transport, auth, rate limiting after retries) return an
	// error; an empty completion is a valid non-error result.
	Complete(ctx context.Context, model *Model, req Request) (string, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Api]ProviderFactory)
)

// RegisterProvider registers a factory for the given API.
func RegisterProvider(api Api, factory ProviderFactory) {
	registryMu.Lock()
	registry[api] = factory
	registryMu.Unlock()
}

// GetProvider returns a provider for the given API and optional base URL.
// Returns nil if no provider is registered.
func GetProvider(api Api, baseURL string) Provider {
	registryMu.RLock()
	factory, ok := registry[api]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory(baseURL)
}

// HasProvider checks if a provider is registered for the given API.
func HasProvider(api Api) bool {
	registryMu.RLock()
	_, ok := registry[api]
	registryMu.RUnlock()
	return ok
}
