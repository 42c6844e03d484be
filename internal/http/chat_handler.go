package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"telecom-agent/internal/domain"
	"telecom-agent/internal/llm"
	"telecom-agent/internal/service"
)

const serviceName = "Telecom AI Agent API"
const serviceVersion = "1.0.0"

// ChatHandler serves the chat, voice and health endpoints. A nil provider
// means construction failed at startup; every endpoint then answers 503.
type ChatHandler struct {
	logger   *zap.Logger
	chat     *service.ChatService
	provider llm.ResponseProvider
}

func NewChatHandler(logger *zap.Logger, chat *service.ChatService, provider llm.ResponseProvider) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chat:     chat,
		provider: provider,
	}
}

// Chat handles POST /chat/.
func (h *ChatHandler) Chat(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI service is currently unavailable. Please check configuration.",
		})
		return
	}

	var req struct {
		Message   string `json:"message" binding:"required"`
		SessionID string `json:"session_id"`
		Language  string `json:"language" binding:"omitempty,oneof=en fa ps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, fieldErrors(err))
		return
	}

	result, err := h.chat.HandleTurn(c.Request.Context(), req.SessionID, req.Language, req.Message)
	if err != nil {
		h.logger.Error("chat turn failed", zap.Error(err), zap.String("session_id", req.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":    result.Reply,
		"session_id":  result.SessionID,
		"message_id":  result.ReplyMessageID,
		"status":      "success",
		"ai_provider": result.Provider,
	})
}

// VoiceChat handles POST /voice-chat/. The text arrives already transcribed;
// the response echoes it back instead of a message id.
func (h *ChatHandler) VoiceChat(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI service is currently unavailable",
		})
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Language  string `json:"language" binding:"omitempty,oneof=en fa ps"`
		Text      string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid voice chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, fieldErrors(err))
		return
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided for voice processing"})
		return
	}

	result, err := h.chat.HandleTurn(c.Request.Context(), req.SessionID, req.Language, req.Text)
	if err != nil {
		h.logger.Error("voice turn failed", zap.Error(err), zap.String("session_id", req.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Voice processing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":      result.Reply,
		"session_id":    result.SessionID,
		"original_text": req.Text,
		"status":        "success",
		"ai_provider":   result.Provider,
	})
}

// Health handles GET /health/. It probes the provider with a canned greeting;
// a degraded deployment without a provider reports 503.
func (h *ChatHandler) Health(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "degraded",
			"service":    serviceName,
			"ai_service": "unavailable",
			"version":    serviceVersion,
		})
		return
	}

	h.provider.GenerateResponse(c.Request.Context(), "Hello", domain.LanguageEnglish)

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     serviceName,
		"ai_service":  "healthy",
		"ai_provider": h.provider.Name(),
		"version":     serviceVersion,
		"message":     "AI service is responding",
	})
}

// Transcript handles GET /conversations/:session_id.
func (h *ChatHandler) Transcript(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI service is currently unavailable",
		})
		return
	}

	sessionID := c.Param("session_id")

	conv, messages, err := h.chat.Transcript(c.Request.Context(), sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		h.logger.Error("transcript lookup failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     messages,
	})
}

// fieldErrors converts binding failures into a per-field error payload.
func fieldErrors(err error) gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return gin.H{"error": "invalid request body"}
	}

	out := gin.H{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = []string{"This field is required."}
		case "oneof":
			out[field] = []string{"Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ") + "."}
		default:
			out[field] = []string{"Invalid value."}
		}
	}
	return out
}
