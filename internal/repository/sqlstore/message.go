package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *sql.DB
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, user_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.UserID.String(), string(m.Role), m.Content, formatTime(m.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListRecent retrieves the newest messages for a user
func (r *MessageRepository) ListRecent(ctx context.Context, userID domain.UserID, limit int) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, role, content, timestamp
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY timestamp DESC, seq DESC
		LIMIT ?`,
		userID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var (
			m             domain.ChatMessage
			uid, role, ts string
		)
		if err := rows.Scan(&m.ID, &uid, &role, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if m.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		m.UserID = domain.UserID(uid)
		m.Role = domain.MessageRole(role)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
