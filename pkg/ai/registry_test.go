// ABOUTME: Tests for provider registration and lookup
// ABOUTME: Uses a stub provider; the registry is global so names are unique per test

package ai

import (
	"context"
	"testing"
)

type stubProvider struct {
	api Api
}

func (s *stubProvider) Api() Api { return s.api }

func (s *stubProvider) Complete(context.Context, *Model, Request) (string, error) {
	return "stub", nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	api := Api("test-registry")
	if HasProvider(api) {
		t.Fatal("provider registered before test")
	}
	if GetProvider(api, "") != nil {
		t.Fatal("GetProvider returned a provider for an unregistered API")
	}

	var gotBaseURL string
	RegisterProvider(api, func(baseURL string) Provider {
		gotBaseURL = baseURL
		return &stubProvider{api: api}
	})

	if !HasProvider(api) {
		t.Error("HasProvider = false after registration")
	}
	p := GetProvider(api, "http://localhost:9999")
	if p == nil || p.Api() != api {
		t.Fatalf("GetProvider = %v", p)
	}
	if gotBaseURL != "http://localhost:9999" {
		t.Errorf("factory baseURL = %q", gotBaseURL)
	}
}

func TestFindModel(t *testing.T) {
	t.Parallel()

	if m := FindModel("gpt-4o-mini"); m.Api != ApiOpenAI || m.Name != "GPT-4o Mini" {
		t.Errorf("got %+v", m)
	}

	// Unknown IDs are assumed OpenAI-compatible so local endpoints work.
	m := FindModel("ollama:llama3")
	if m.Api != ApiOpenAI || m.ID != "ollama:llama3" {
		t.Errorf("got %+v", m)
	}
}
