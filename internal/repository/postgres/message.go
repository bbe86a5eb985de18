package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	query := `
		INSERT INTO chat_messages (id, user_id, role, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.UserID.String(),
		string(message.Role),
		message.Content,
		message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListRecent retrieves the newest messages for a user
func (r *MessageRepository) ListRecent(ctx context.Context, userID domain.UserID, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, timestamp
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY timestamp DESC, seq DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var (
			m      domain.ChatMessage
			userID string
			role   string
		)
		if err := rows.Scan(&m.ID, &userID, &role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.UserID = domain.UserID(userID)
		m.Role = domain.MessageRole(role)
		m.Timestamp = m.Timestamp.UTC()
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
