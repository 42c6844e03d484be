package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"telecom-agent/internal/prompt"
)

// OpenAIProvider generates replies through the managed OpenAI chat completion
// endpoint.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	registry   *prompt.Registry
	logger     *zap.Logger
}

func NewOpenAIProvider(apiKey, baseURL, model string, registry *prompt.Registry, logger *zap.Logger) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout * time.Second},
		registry:   registry,
		logger:     logger,
	}
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) FallbackResponse(language string) string {
	return p.registry.Fallback(language)
}

// GenerateResponse calls the completion endpoint and returns the reply text.
// Any transport or API failure is logged and converted into the fallback.
func (p *OpenAIProvider) GenerateResponse(ctx context.Context, message, language string) string {
	reply, err := p.complete(ctx, message, language)
	if err != nil {
		p.logger.Error("openai completion failed", zap.Error(err), zap.String("language", language))
		return p.FallbackResponse(language)
	}
	return reply
}

func (p *OpenAIProvider) complete(ctx context.Context, message, language string) (string, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.registry.SystemPrompt(language)},
			{Role: "user", Content: message},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai http error: status=%d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("openai api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", errors.New("openai empty response")
	}

	return cr.Choices[0].Message.Content, nil
}
