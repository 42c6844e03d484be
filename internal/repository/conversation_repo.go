package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"telecom-agent/internal/domain"
)

type ConversationRepository interface {
	// GetOrCreate resolves the conversation for candidate.SessionID, inserting
	// candidate if no row exists yet. The returned row is the stored one, so an
	// existing conversation keeps its id, language and timestamps.
	GetOrCreate(ctx context.Context, candidate domain.Conversation) (domain.Conversation, error)
	GetBySessionID(ctx context.Context, sessionID string) (domain.Conversation, error)
	UpdateLanguage(ctx context.Context, id, language string) error
}

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

// The no-op conflict update makes the insert return the existing row, so
// resolve-or-create is a single atomic statement and concurrent first turns on
// one session cannot race to two rows.
func (r *PgConversationRepository) GetOrCreate(ctx context.Context, candidate domain.Conversation) (domain.Conversation, error) {
	const query = `
		INSERT INTO conversations (id, session_id, user_language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id, session_id, user_language, created_at, updated_at
	`
	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query,
		candidate.ID,
		candidate.SessionID,
		candidate.UserLanguage,
		candidate.CreatedAt,
		candidate.UpdatedAt,
	).Scan(
		&conv.ID,
		&conv.SessionID,
		&conv.UserLanguage,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	return conv, err
}

func (r *PgConversationRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.Conversation, error) {
	const query = `
		SELECT id, session_id, user_language, created_at, updated_at
		FROM conversations
		WHERE session_id = $1
	`
	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&conv.ID,
		&conv.SessionID,
		&conv.UserLanguage,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	return conv, err
}

func (r *PgConversationRepository) UpdateLanguage(ctx context.Context, id, language string) error {
	const query = `
		UPDATE conversations
		SET user_language = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, language)
	return err
}
