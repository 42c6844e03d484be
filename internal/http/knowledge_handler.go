package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"telecom-agent/internal/domain"
	"telecom-agent/internal/repository"
)

// KnowledgeHandler maintains the support knowledge base. The reply path never
// reads these records; they exist for the support team.
type KnowledgeHandler struct {
	logger  *zap.Logger
	entries repository.KnowledgeRepository
}

func NewKnowledgeHandler(logger *zap.Logger, entries repository.KnowledgeRepository) *KnowledgeHandler {
	return &KnowledgeHandler{logger: logger, entries: entries}
}

// Create handles POST /knowledge/.
func (h *KnowledgeHandler) Create(c *gin.Context) {
	var req struct {
		QuestionEN     string `json:"question_en" binding:"required"`
		QuestionDari   string `json:"question_dari" binding:"required"`
		QuestionPashto string `json:"question_pashto" binding:"required"`
		AnswerEN       string `json:"answer_en" binding:"required"`
		AnswerDari     string `json:"answer_dari" binding:"required"`
		AnswerPashto   string `json:"answer_pashto" binding:"required"`
		Category       string `json:"category" binding:"required,oneof=balance packages coverage sim technical"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid knowledge entry request", zap.Error(err))
		c.JSON(http.StatusBadRequest, fieldErrors(err))
		return
	}

	entry := domain.KnowledgeEntry{
		ID:             uuid.NewString(),
		QuestionEN:     req.QuestionEN,
		QuestionDari:   req.QuestionDari,
		QuestionPashto: req.QuestionPashto,
		AnswerEN:       req.AnswerEN,
		AnswerDari:     req.AnswerDari,
		AnswerPashto:   req.AnswerPashto,
		Category:       req.Category,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.entries.Create(c.Request.Context(), entry); err != nil {
		h.logger.Error("create knowledge entry failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create knowledge entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// List handles GET /knowledge/ with an optional category filter.
func (h *KnowledgeHandler) List(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !domain.IsKnowledgeCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	entries, err := h.entries.List(c.Request.Context(), category)
	if err != nil {
		h.logger.Error("list knowledge entries failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list knowledge entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
