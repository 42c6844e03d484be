package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"telecom-agent/internal/prompt"
)

// ErrDeepSeekAPIKeyRequired is returned when the provider is selected without
// a credential configured.
var ErrDeepSeekAPIKeyRequired = errors.New("deepseek api key is required")

// DeepSeekProvider generates replies through the DeepSeek chat completion
// endpoint. Unlike the other variants it refuses to construct without an API
// key, so a misconfigured deployment fails at startup rather than per request.
type DeepSeekProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	registry   *prompt.Registry
	logger     *zap.Logger
}

func NewDeepSeekProvider(apiKey, baseURL, model string, registry *prompt.Registry, logger *zap.Logger) (*DeepSeekProvider, error) {
	if apiKey == "" {
		return nil, ErrDeepSeekAPIKeyRequired
	}
	if baseURL == "" {
		baseURL = "https://api.deepseek.com"
	}
	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepSeekProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout * time.Second},
		registry:   registry,
		logger:     logger,
	}, nil
}

func (p *DeepSeekProvider) Name() string { return ProviderDeepSeek }

func (p *DeepSeekProvider) FallbackResponse(language string) string {
	return p.registry.Fallback(language)
}

// GenerateResponse calls the completion endpoint. The failure cause is only
// distinguished for logging; every failure yields the same fallback reply.
func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, message, language string) string {
	reply, err := p.complete(ctx, message, language)
	if err == nil {
		return reply
	}

	var urlErr *url.Error
	switch {
	case errors.As(err, &urlErr) && urlErr.Timeout():
		p.logger.Error("deepseek request timed out", zap.Error(err))
	case errors.As(err, &urlErr):
		p.logger.Error("deepseek request failed", zap.Error(err))
	default:
		p.logger.Error("deepseek completion failed", zap.Error(err), zap.String("language", language))
	}
	return p.FallbackResponse(language)
}

func (p *DeepSeekProvider) complete(ctx context.Context, message, language string) (string, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.registry.SystemPrompt(language)},
			{Role: "user", Content: message},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
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
		return "", fmt.Errorf("deepseek http error: status=%d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("deepseek api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", errors.New("deepseek empty response")
	}

	return cr.Choices[0].Message.Content, nil
}
