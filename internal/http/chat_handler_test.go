package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"telecom-agent/internal/domain"
	"telecom-agent/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockConversationRepo struct {
	bySession map[string]domain.Conversation
	calls     int
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{bySession: make(map[string]domain.Conversation)}
}

func (m *mockConversationRepo) GetOrCreate(_ context.Context, candidate domain.Conversation) (domain.Conversation, error) {
	m.calls++
	if existing, ok := m.bySession[candidate.SessionID]; ok {
		return existing, nil
	}
	m.bySession[candidate.SessionID] = candidate
	return candidate, nil
}

func (m *mockConversationRepo) GetBySessionID(_ context.Context, sessionID string) (domain.Conversation, error) {
	conv, ok := m.bySession[sessionID]
	if !ok {
		return domain.Conversation{}, pgx.ErrNoRows
	}
	return conv, nil
}

func (m *mockConversationRepo) UpdateLanguage(_ context.Context, id, language string) error {
	for sid, conv := range m.bySession {
		if conv.ID == id {
			conv.UserLanguage = language
			m.bySession[sid] = conv
		}
	}
	return nil
}

type mockMessageRepo struct {
	created []domain.Message
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.Message) error {
	m.created = append(m.created, message)
	return nil
}

func (m *mockMessageRepo) ListByConversationID(_ context.Context, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.created {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type stubProvider struct {
	reply string
}

func (p *stubProvider) GenerateResponse(context.Context, string, string) string { return p.reply }
func (p *stubProvider) FallbackResponse(string) string                          { return "fallback" }
func (p *stubProvider) Name() string                                            { return "mock" }

type testEnv struct {
	router *gin.Engine
	conv   *mockConversationRepo
	msgs   *mockMessageRepo
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	conv := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	provider := &stubProvider{reply: "We offer three internet packages."}
	chat := service.NewChatService(conv, msgs, provider, nil, zap.NewNop())
	handler := NewChatHandler(zap.NewNop(), chat, provider)

	r := gin.New()
	r.POST("/chat/", handler.Chat)
	r.POST("/voice-chat/", handler.VoiceChat)
	r.GET("/health/", handler.Health)
	r.GET("/conversations/:session_id", handler.Transcript)
	return testEnv{router: r, conv: conv, msgs: msgs}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, payload
}

func TestChatEndpointSuccess(t *testing.T) {
	env := newTestEnv(t)

	w, payload := doJSON(t, env.router, http.MethodPost, "/chat/", map[string]string{
		"message":    "What are your internet packages?",
		"session_id": "s1",
		"language":   "en",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if payload["response"] == "" || payload["response"] == nil {
		t.Fatalf("expected non-empty response")
	}
	if payload["session_id"] != "s1" || payload["status"] != "success" || payload["ai_provider"] != "mock" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["message_id"] == nil {
		t.Fatalf("expected message_id in payload")
	}

	conv, ok := env.conv.bySession["s1"]
	if !ok || conv.UserLanguage != "en" {
		t.Fatalf("expected conversation s1 with english language, got %+v", conv)
	}
	if len(env.msgs.created) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(env.msgs.created))
	}
}

func TestChatEndpointMissingMessage(t *testing.T) {
	env := newTestEnv(t)

	w, payload := doJSON(t, env.router, http.MethodPost, "/chat/", map[string]string{
		"session_id": "s1",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := payload["message"]; !ok {
		t.Fatalf("expected a field error for message, got %v", payload)
	}
	if len(env.conv.bySession) != 0 || len(env.msgs.created) != 0 {
		t.Fatalf("expected no side effects on validation failure")
	}
}

func TestChatEndpointUnsupportedLanguage(t *testing.T) {
	env := newTestEnv(t)

	w, payload := doJSON(t, env.router, http.MethodPost, "/chat/", map[string]string{
		"message":  "hello",
		"language": "de",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := payload["language"]; !ok {
		t.Fatalf("expected a field error for language, got %v", payload)
	}
	if len(env.msgs.created) != 0 {
		t.Fatalf("expected no side effects")
	}
}

func TestChatEndpointDefaultsSession(t *testing.T) {
	env := newTestEnv(t)

	w, payload := doJSON(t, env.router, http.MethodPost, "/chat/", map[string]string{
		"message": "hello",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if payload["session_id"] != service.DefaultSessionID {
		t.Fatalf("expected default session id, got %v", payload["session_id"])
	}
}

func TestVoiceChatEndpoint(t *testing.T) {
	t.Run("success echoes original text", func(t *testing.T) {
		env := newTestEnv(t)

		w, payload := doJSON(t, env.router, http.MethodPost, "/voice-chat/", map[string]string{
			"session_id": "s2",
			"language":   "fa",
			"text":       "بسته های انترنتی",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if payload["original_text"] != "بسته های انترنتی" {
			t.Fatalf("expected original text echoed, got %v", payload["original_text"])
		}
		if _, ok := payload["message_id"]; ok {
			t.Fatalf("voice response must not carry message_id")
		}
		if env.conv.bySession["s2"].UserLanguage != "fa" {
			t.Fatalf("expected fa conversation")
		}
	})

	t.Run("empty text rejected without side effects", func(t *testing.T) {
		env := newTestEnv(t)

		w, _ := doJSON(t, env.router, http.MethodPost, "/voice-chat/", map[string]string{
			"session_id": "s2",
			"language":   "fa",
			"text":       "",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if len(env.conv.bySession) != 0 || len(env.msgs.created) != 0 {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("missing text rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w, _ := doJSON(t, env.router, http.MethodPost, "/voice-chat/", map[string]string{
			"session_id": "s2",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t)

		w, payload := doJSON(t, env.router, http.MethodGet, "/health/", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if payload["status"] != "healthy" || payload["ai_provider"] != "mock" {
			t.Fatalf("unexpected payload %v", payload)
		}
	})

	t.Run("degraded without provider", func(t *testing.T) {
		handler := NewChatHandler(zap.NewNop(), nil, nil)
		r := gin.New()
		r.GET("/health/", handler.Health)

		w, payload := doJSON(t, r, http.MethodGet, "/health/", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		if payload["status"] != "degraded" || payload["ai_service"] != "unavailable" {
			t.Fatalf("unexpected payload %v", payload)
		}
	})
}

func TestEndpointsUnavailableWithoutProvider(t *testing.T) {
	handler := NewChatHandler(zap.NewNop(), nil, nil)
	r := gin.New()
	r.POST("/chat/", handler.Chat)
	r.POST("/voice-chat/", handler.VoiceChat)

	for _, path := range []string{"/chat/", "/voice-chat/"} {
		w, _ := doJSON(t, r, http.MethodPost, path, map[string]string{"message": "hi", "text": "hi"})
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, w.Code)
		}
	}
}

func TestTranscriptWithoutProvider(t *testing.T) {
	t.Run("nil service answers 503", func(t *testing.T) {
		handler := NewChatHandler(zap.NewNop(), nil, nil)
		r := gin.New()
		r.Use(gin.Recovery())
		r.GET("/conversations/:session_id", handler.Transcript)

		w, payload := doJSON(t, r, http.MethodGet, "/conversations/s1", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
		}
		if payload["error"] == nil {
			t.Fatalf("expected an error payload, got %q", w.Body.String())
		}
	})

	t.Run("lookups only need storage", func(t *testing.T) {
		conv := newMockConversationRepo()
		conv.bySession["s1"] = domain.Conversation{ID: "c1", SessionID: "s1", UserLanguage: "en"}
		msgs := &mockMessageRepo{created: []domain.Message{
			{ID: "m1", ConversationID: "c1", Content: "hello", IsUser: true},
		}}
		chat := service.NewChatService(conv, msgs, nil, nil, zap.NewNop())
		handler := NewChatHandler(zap.NewNop(), chat, nil)

		r := gin.New()
		r.GET("/conversations/:session_id", handler.Transcript)

		w, payload := doJSON(t, r, http.MethodGet, "/conversations/s1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 without a provider, got %d: %s", w.Code, w.Body.String())
		}
		messages, ok := payload["messages"].([]interface{})
		if !ok || len(messages) != 1 {
			t.Fatalf("expected 1 message, got %v", payload["messages"])
		}
	})
}

func TestTranscriptEndpoint(t *testing.T) {
	env := newTestEnv(t)

	if w, _ := doJSON(t, env.router, http.MethodGet, "/conversations/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", w.Code)
	}

	if w, _ := doJSON(t, env.router, http.MethodPost, "/chat/", map[string]string{"message": "hello", "session_id": "s1"}); w.Code != http.StatusOK {
		t.Fatalf("seed turn failed: %d", w.Code)
	}

	w, payload := doJSON(t, env.router, http.MethodGet, "/conversations/s1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	messages, ok := payload["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("expected 2 messages in transcript, got %v", payload["messages"])
	}
}
