// ABOUTME: Tests for the OpenAI completion provider against an httptest server
// ABOUTME: Covers request shaping, response extraction, and API error surfacing

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meetbuddy/buddy/pkg/ai"
)

func TestComplete(t *testing.T) {
	t.Parallel()

	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != chatCompletionPath {
			t.Errorf("path = %q; want %q", r.URL.Path, chatCompletionPath)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"intent\":\"list_meetings\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := New("test-key", srv.URL)
	model := &ai.Model{ID: "gpt-4o-mini", Api: ai.ApiOpenAI, MaxOutputTokens: 256}

	got, err := p.Complete(context.Background(), model, ai.Request{
		System:      "classify",
		Prompt:      "show my meetings",
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(got, "list_meetings") {
		t.Errorf("completion = %q", got)
	}

	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q", gotBody.Model)
	}
	if gotBody.Temperature != 0 {
		t.Errorf("temperature = %v; want 0", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("messages = %+v; want system then user", gotBody.Messages)
	}
}

func TestComplete_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New("bad-key", srv.URL)
	_, err := p.Complete(context.Background(), &ai.Model{ID: "gpt-4o-mini"}, ai.Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error %q does not carry provider detail", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := New("k", srv.URL)
	got, err := p.Complete(context.Background(), &ai.Model{ID: "m"}, ai.Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "" {
		t.Errorf("completion = %q; want empty", got)
	}
}
