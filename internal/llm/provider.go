// Package llm implements the response providers that turn a user message into
// a support reply: two remote chat-completion clients and a deterministic
// local provider for environments without credentials.
package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"telecom-agent/internal/prompt"
)

// Provider names accepted by the AI_PROVIDER setting.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"
)

// Generation parameters shared by the remote variants.
const (
	temperature    = 0.7
	maxTokens      = 500
	requestTimeout = 30 // seconds
)

// ResponseProvider turns a user message into a reply in the requested
// language. GenerateResponse never fails: any provider-side error is swallowed
// and the per-language fallback reply is returned instead.
type ResponseProvider interface {
	GenerateResponse(ctx context.Context, message, language string) string
	FallbackResponse(language string) string
	Name() string
}

// Options carries the credentials and endpoints for the remote variants.
type Options struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string
}

// New constructs the provider selected by name. The choice is made once at
// process start; callers inject the returned instance everywhere.
func New(name string, opts Options, registry *prompt.Registry, logger *zap.Logger) (ResponseProvider, error) {
	switch name {
	case ProviderOpenAI:
		return NewOpenAIProvider(opts.OpenAIAPIKey, opts.OpenAIBaseURL, opts.OpenAIModel, registry, logger), nil
	case ProviderDeepSeek:
		p, err := NewDeepSeekProvider(opts.DeepSeekAPIKey, opts.DeepSeekBaseURL, opts.DeepSeekModel, registry, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderMock, "":
		return NewMockProvider(registry), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", name)
	}
}

// Wire types shared by the OpenAI-compatible chat completion endpoints.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
