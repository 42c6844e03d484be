package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telecom-agent/internal/domain"
	"telecom-agent/internal/llm"
	"telecom-agent/internal/repository"
)

// DefaultSessionID is used when a request carries no session id. Both the chat
// and voice paths share it.
const DefaultSessionID = "default"

// ChatService orchestrates one support turn: it resolves the conversation for
// the session, records the user message, asks the provider for a reply and
// records that too.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	provider      llm.ResponseProvider
	cache         ConversationCache
	logger        *zap.Logger
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	provider llm.ResponseProvider,
	cache ConversationCache,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		provider:      provider,
		cache:         cache,
		logger:        logger,
	}
}

// TurnResult is the outcome of one successful turn.
type TurnResult struct {
	Reply          string
	SessionID      string
	ReplyMessageID string
	Provider       string
}

// HandleTurn runs one turn. The provider never fails, so an error here always
// means a storage problem; callers surface it as a generic server error. Two
// messages are written per turn, the user's before the provider call and the
// reply after it, so even a fallback reply lands in the transcript.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, language, message string) (TurnResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		sessionID = DefaultSessionID
	}
	if language == "" {
		language = domain.LanguageEnglish
	}

	s.logger.Info("processing turn",
		zap.String("session_id", sessionID),
		zap.String("language", language),
	)

	conv, err := s.resolveConversation(ctx, sessionID, language)
	if err != nil {
		return TurnResult{}, fmt.Errorf("resolve conversation: %w", err)
	}

	if conv.UserLanguage != language {
		if err := s.conversations.UpdateLanguage(ctx, conv.ID, language); err != nil {
			return TurnResult{}, fmt.Errorf("update language: %w", err)
		}
		conv.UserLanguage = language
		if s.cache != nil {
			s.cache.Set(ctx, sessionID, conv)
		}
	}

	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Content:        message,
		IsUser:         true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return TurnResult{}, fmt.Errorf("persist user message: %w", err)
	}

	reply := s.provider.GenerateResponse(ctx, message, language)

	replyMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Content:        reply,
		IsUser:         false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, replyMsg); err != nil {
		return TurnResult{}, fmt.Errorf("persist reply message: %w", err)
	}

	return TurnResult{
		Reply:          reply,
		SessionID:      sessionID,
		ReplyMessageID: replyMsg.ID,
		Provider:       s.provider.Name(),
	}, nil
}

// resolveConversation checks the cache first; on a miss it runs the atomic
// get-or-create upsert and caches the stored row.
func (s *ChatService) resolveConversation(ctx context.Context, sessionID, language string) (domain.Conversation, error) {
	if s.cache != nil {
		if conv, ok := s.cache.Get(ctx, sessionID); ok {
			return conv, nil
		}
	}

	now := time.Now().UTC()
	conv, err := s.conversations.GetOrCreate(ctx, domain.Conversation{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		UserLanguage: language,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return domain.Conversation{}, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, sessionID, conv)
	}
	return conv, nil
}

// Transcript returns the conversation for sessionID and its messages in
// creation order.
func (s *ChatService) Transcript(ctx context.Context, sessionID string) (domain.Conversation, []domain.Message, error) {
	conv, err := s.conversations.GetBySessionID(ctx, sessionID)
	if err != nil {
		return domain.Conversation{}, nil, err
	}
	messages, err := s.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return domain.Conversation{}, nil, err
	}
	return conv, messages, nil
}
