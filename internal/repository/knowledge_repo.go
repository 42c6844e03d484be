package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"telecom-agent/internal/domain"
)

type KnowledgeRepository interface {
	Create(ctx context.Context, entry domain.KnowledgeEntry) error
	List(ctx context.Context, category string) ([]domain.KnowledgeEntry, error)
}

type PgKnowledgeRepository struct {
	pool *pgxpool.Pool
}

func NewPgKnowledgeRepository(pool *pgxpool.Pool) *PgKnowledgeRepository {
	return &PgKnowledgeRepository{pool: pool}
}

func (r *PgKnowledgeRepository) Create(ctx context.Context, entry domain.KnowledgeEntry) error {
	const query = `
		INSERT INTO knowledge_base
			(id, question_en, question_dari, question_pashto, answer_en, answer_dari, answer_pashto, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.QuestionEN,
		entry.QuestionDari,
		entry.QuestionPashto,
		entry.AnswerEN,
		entry.AnswerDari,
		entry.AnswerPashto,
		entry.Category,
		entry.CreatedAt,
	)
	return err
}

// List returns entries newest first, optionally filtered by category.
func (r *PgKnowledgeRepository) List(ctx context.Context, category string) ([]domain.KnowledgeEntry, error) {
	const query = `
		SELECT id, question_en, question_dari, question_pashto, answer_en, answer_dari, answer_pashto, category, created_at
		FROM knowledge_base
		WHERE $1 = '' OR category = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.KnowledgeEntry
	for rows.Next() {
		var e domain.KnowledgeEntry
		err = rows.Scan(
			&e.ID,
			&e.QuestionEN,
			&e.QuestionDari,
			&e.QuestionPashto,
			&e.AnswerEN,
			&e.AnswerDari,
			&e.AnswerPashto,
			&e.Category,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
