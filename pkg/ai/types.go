// ABOUTME: Core completion types shared across all providers
// ABOUTME: Request/Model definitions; wire-format agnostic

package ai

// Api identifies an API provider.
type Api string

const (
	ApiOpenAI    Api = "openai"
	ApiAnthropic Api = "anthropic"
)

// Model defines a model's metadata.
type Model struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Api             Api    `json:"api"`
	MaxOutputTokens int    `json:"max_output_tokens"`
	BaseURL         string `json:"base_url,omitempty"`
}

// Request holds the inputs for a single completion call.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Built-in model definitions.
var (
	ModelGPT4o = Model{
		ID:              "gpt-4o",
		Name:            "GPT-4o",
		Api:             ApiOpenAI,
		MaxOutputTokens: 16384,
	}

	ModelGPT4oMini = Model{
		ID:              "gpt-4o-mini",
		Name:            "GPT-4o Mini",
		Api:             ApiOpenAI,
		MaxOutputTokens: 16384,
	}

	ModelClaudeHaiku = Model{
		ID:              "claude-haiku-4-5-20251001",
		Name:            "Claude Haiku 4.5",
		Api:             ApiAnthropic,
		MaxOutputTokens: 8192,
	}

	ModelClaudeSonnet = Model{
		ID:              "claude-sonnet-4-6",
		Name:            "Claude Sonnet 4.6",
		Api:             ApiAnthropic,
		MaxOutputTokens: 16384,
	}
)

// BuiltinModels returns all built-in model definitions.
func BuiltinModels() []Model {
	return []Model{ModelGPT4o, ModelGPT4oMini, ModelClaudeHaiku, ModelClaudeSonnet}
}

// FindModel looks up a built-in model by ID. Unknown IDs are assumed to
// be OpenAI-compatible (e.g. ollama:llama3, vLLM deployments).
func FindModel(id string) *Model {
	for _, m := range BuiltinModels() {
		if m.ID == id {
			return &m
		}
	}
	return &Model{ID: id, Name: id, Api: ApiOpenAI, MaxOutputTokens: 4096}
}
