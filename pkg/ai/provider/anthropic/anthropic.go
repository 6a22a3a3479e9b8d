// ABOUTME: Anthropic Messages API provider
// ABOUTME: Implements ai.Provider with a blocking, non-streaming completion call

package anthropic

import (
	"context"
	"fmt"
	"os"

	"github.com/meetbuddy/buddy/internal/log"
	"github.com/meetbuddy/buddy/pkg/ai"
	"github.com/meetbuddy/buddy/pkg/ai/internal/httputil"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"
)

// Provider implements the Anthropic Messages API.
type Provider struct {
	client *httputil.Client
}

// New creates an Anthropic provider.
func New(apiKey, baseURL string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		client: httputil.NewClient(baseURL, map[string]string{
			"x-api-key":         apiKey,
			"anthropic-version": apiVersion,
		}),
	}
}

// Api returns the provider identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiAnthropic
}

type messagesRequest struct {
	Model       string           `json:"model"`
	System      string           `json:"system,omitempty"`
	Messages    []wireMessage    `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature *float64         `json:"temperature,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete performs a single messages call.
func (p *Provider) Complete(ctx context.Context, model *ai.Model, req ai.Request) (string, error) {
	temp := req.Temperature
	body := messagesRequest{
		Model:       model.ID,
		System:      req.System,
		Messages:    []wireMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: &temp,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = model.MaxOutputTokens
	}

	log.Debug("http: POST %s%s model=%s", p.client.BaseURL(), messagesPath, model.ID)

	var resp messagesResponse
	if err := p.client.PostJSON(ctx, messagesPath, body, &resp); err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
