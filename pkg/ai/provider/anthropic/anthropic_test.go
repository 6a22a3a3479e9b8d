// ABOUTME: Tests for the Anthropic messages provider against an httptest server
// ABOUTME: Covers headers, max_tokens defaulting, and text block extraction

package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meetbuddy/buddy/pkg/ai"
)

func TestComplete(t *testing.T) {
	t.Parallel()

	var gotBody messagesRequest
	var gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagesPath {
			t.Errorf("path = %q; want %q", r.URL.Path, messagesPath)
		}
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"hello back"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	p := New("test-key", srv.URL)
	model := &ai.Model{ID: "claude-haiku-4-5-20251001", Api: ai.ApiAnthropic, MaxOutputTokens: 512}

	got, err := p.Complete(context.Background(), model, ai.Request{
		System:      "answer briefly",
		Prompt:      "hello",
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello back" {
		t.Errorf("completion = %q", got)
	}

	if gotKey != "test-key" || gotVersion != apiVersion {
		t.Errorf("headers key=%q version=%q", gotKey, gotVersion)
	}
	if gotBody.System != "answer briefly" {
		t.Errorf("system = %q", gotBody.System)
	}
	if gotBody.MaxTokens != 512 {
		t.Errorf("max_tokens = %d; want the model default 512", gotBody.MaxTokens)
	}
	if gotBody.Temperature == nil || *gotBody.Temperature != 0 {
		t.Errorf("temperature = %v; want explicit 0", gotBody.Temperature)
	}
}

func TestComplete_NoTextBlock(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	p := New("k", srv.URL)
	got, err := p.Complete(context.Background(), &ai.Model{ID: "m", MaxOutputTokens: 64}, ai.Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "" {
		t.Errorf("completion = %q; want empty", got)
	}
}
