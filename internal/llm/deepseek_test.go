package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"telecom-agent/internal/domain"
)

func TestNewDeepSeekProviderRequiresAPIKey(t *testing.T) {
	_, err := NewDeepSeekProvider("", "", "", newTestRegistry(t), zap.NewNop())
	if !errors.Is(err, ErrDeepSeekAPIKeyRequired) {
		t.Fatalf("expected ErrDeepSeekAPIKeyRequired, got %v", err)
	}
}

func TestDeepSeekProviderGenerateResponse(t *testing.T) {
	registry := newTestRegistry(t)

	t.Run("success", func(t *testing.T) {
		var gotReq chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "Dial *123# to check your balance."}},
				},
			})
		}))
		defer server.Close()

		p, err := NewDeepSeekProvider("test-key", server.URL, "", registry, zap.NewNop())
		if err != nil {
			t.Fatalf("construct provider: %v", err)
		}

		got := p.GenerateResponse(context.Background(), "balance?", domain.LanguageEnglish)
		if got != "Dial *123# to check your balance." {
			t.Fatalf("unexpected reply %q", got)
		}
		if gotReq.Model != "deepseek-chat" {
			t.Fatalf("expected default model, got %q", gotReq.Model)
		}
		if gotReq.Temperature != 0.7 || gotReq.MaxTokens != 500 || gotReq.Stream {
			t.Fatalf("unexpected generation parameters: %+v", gotReq)
		}
		if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "balance?" {
			t.Fatalf("unexpected messages: %+v", gotReq.Messages)
		}
	})

	t.Run("non-200 status falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		p, _ := NewDeepSeekProvider("test-key", server.URL, "", registry, zap.NewNop())
		got := p.GenerateResponse(context.Background(), "hi", domain.LanguageDari)
		if got != registry.Fallback(domain.LanguageDari) {
			t.Fatalf("expected dari fallback, got %q", got)
		}
	})

	t.Run("malformed body falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		p, _ := NewDeepSeekProvider("test-key", server.URL, "", registry, zap.NewNop())
		got := p.GenerateResponse(context.Background(), "hi", domain.LanguagePashto)
		if got != registry.Fallback(domain.LanguagePashto) {
			t.Fatalf("expected pashto fallback, got %q", got)
		}
	})

	t.Run("empty choices fall back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		p, _ := NewDeepSeekProvider("test-key", server.URL, "", registry, zap.NewNop())
		got := p.GenerateResponse(context.Background(), "hi", domain.LanguageEnglish)
		if got != registry.Fallback(domain.LanguageEnglish) {
			t.Fatalf("expected english fallback, got %q", got)
		}
	})

	t.Run("timeout falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		p, _ := NewDeepSeekProvider("test-key", server.URL, "", registry, zap.NewNop())
		p.httpClient = &http.Client{Timeout: 20 * time.Millisecond}

		got := p.GenerateResponse(context.Background(), "hi", domain.LanguageEnglish)
		if got != registry.Fallback(domain.LanguageEnglish) {
			t.Fatalf("expected english fallback on timeout, got %q", got)
		}
	})

	t.Run("unreachable host falls back", func(t *testing.T) {
		p, _ := NewDeepSeekProvider("test-key", "http://127.0.0.1:1", "", registry, zap.NewNop())
		got := p.GenerateResponse(context.Background(), "hi", domain.LanguageEnglish)
		if got != registry.Fallback(domain.LanguageEnglish) {
			t.Fatalf("expected english fallback, got %q", got)
		}
	})
}
