// ABOUTME: OpenAI Chat Completions provider (also supports Ollama, vLLM)
// ABOUTME: Implements ai.Provider with a blocking, non-streaming completion call

package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/meetbuddy/buddy/internal/log"
	"github.com/meetbuddy/buddy/pkg/ai"
	"github.com/meetbuddy/buddy/pkg/ai/internal/httputil"
)

const (
	defaultBaseURL     = "https://api.openai.com"
	chatCompletionPath = "/v1/chat/completions"
)

// Provider implements the OpenAI Chat Completions API.
type Provider struct {
	client *httputil.Client
}

// New creates an OpenAI provider.
func New(apiKey, baseURL string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		client: httputil.NewClient(baseURL, map[string]string{
			"Authorization": "Bearer " + apiKey,
		}),
	}
}

// Api returns the provider identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiOpenAI
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete performs a single chat completion call.
func (p *Provider) Complete(ctx context.Context, model *ai.Model, req ai.Request) (string, error) {
	body := chatRequest{
		Model:       model.ID,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = model.MaxOutputTokens
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	log.Debug("http: POST %s%s model=%s", p.client.BaseURL(), chatCompletionPath, model.ID)

	var resp chatResponse
	if err := p.client.PostJSON(ctx, chatCompletionPath, body, &resp); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
