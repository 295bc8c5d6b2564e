package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lexa-ai/lexa-backend/internal/models"
)

type ChatRepo struct {
	DB DBTX
}

const appendMessage = `-- name: AppendMessage
INSERT INTO chat_messages (user_id, role, content)
VALUES ($1, $2, $3)
`

func (r *ChatRepo) AppendMessages(ctx context.Context, userID uuid.UUID, messages []models.ChatMessage) error {
	for _, m := range messages {
		_, err := r.DB.Exec(ctx, appendMessage, userID, m.Role, m.Content)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

const listMessages = `-- name: ListMessages
SELECT id, user_id, role, content, created_at FROM chat_messages
WHERE user_id = $1
ORDER BY id
`

func (r *ChatRepo) ListMessages(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	rows, _ := r.DB.Query(ctx, listMessages, userID)
	messages, err := pgx.CollectRows(rows, rowToChatMessage)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return messages, nil
}

const deleteMessages = `-- name: DeleteMessages
DELETE FROM chat_messages
WHERE user_id = $1
`

func (r *ChatRepo) DeleteMessages(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, deleteMessages, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func rowToChatMessage(row pgx.CollectableRow) (models.ChatMessage, error) {
	var m models.ChatMessage
	err := row.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt)
	return m, err
}
