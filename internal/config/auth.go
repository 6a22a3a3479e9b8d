// ABOUTME: Credential storage for LLM API keys and the calendar bearer token
// ABOUTME: Reads/writes ~/.buddy/auth.json with 0600 permissions; env vars as fallback

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// AuthStore holds API keys and tokens keyed by provider name
// ("openai", "anthropic", "graph").
type AuthStore struct {
	Keys map[string]string `json:"keys"`
	mu   sync.Mutex
}

// LoadAuth reads the auth file, or returns an empty store if it doesn't exist.
func LoadAuth() (*AuthStore, error) {
	store := &AuthStore{Keys: make(map[string]string)}
	data, err := os.ReadFile(AuthFile())
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading auth file: %w", err)
	}
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parsing auth file: %w", err)
	}
	if store.Keys == nil {
		store.Keys = make(map[string]string)
	}
	return store, nil
}

// Save writes the auth store to disk with restricted permissions.
func (a *AuthStore) Save() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := EnsureDir(GlobalDir()); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling auth: %w", err)
	}

	if err := os.WriteFile(AuthFile(), data, 0o600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// GetKey returns the credential for a provider. Falls back to environment
// variables: BUDDY_<PROVIDER>_KEY or <PROVIDER>_API_KEY.
func (a *AuthStore) GetKey(provider string) string {
	a.mu.Lock()
	key := a.Keys[provider]
	a.mu.Unlock()

	if key != "" {
		return key
	}

	upper := strings.ToUpper(provider)
	for _, env := range []string{"BUDDY_" + upper + "_KEY", upper + "_API_KEY"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

// SetKey stores a credential for a provider.
func (a *AuthStore) SetKey(provider, key string) {
	a.mu.Lock()
	a.Keys[provider] = key
	a.mu.Unlock()
}

// GraphToken returns the calendar service bearer token. It checks the
// auth store under "graph", then GRAPH_TOKEN, then a token file path
// given in GRAPH_TOKEN_FILE (the token.txt convention).
func (a *AuthStore) GraphToken() string {
	if key := a.GetKey("graph"); key != "" {
		return key
	}
	if v := os.Getenv("GRAPH_TOKEN"); v != "" {
		return v
	}
	if path := os.Getenv("GRAPH_TOKEN_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}
