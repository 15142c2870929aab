package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.ChatMessage) error
	ListByUserAssistant(ctx context.Context, userID, assistant string) ([]domain.ChatMessage, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.ChatMessage) error {
	const query = `
		INSERT INTO chat_messages (id, user_id, assistant, content, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.UserID,
		message.Assistant,
		message.Content,
		message.Role,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListByUserAssistant(ctx context.Context, userID, assistant string) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, user_id, assistant, content, role, created_at
		FROM chat_messages
		WHERE user_id = $1 AND assistant = $2
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, assistant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Assistant,
			&m.Content,
			&m.Role,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
