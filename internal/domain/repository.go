package domain

import (
	"context"
	"time"
)

// UserRepository defines the interface for user storage.
// GetByID and GetByEmail return (nil, nil) when no user matches.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id UserID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id UserID, at time.Time) error
}

// MessageRepository defines the interface for chat history storage
type MessageRepository interface {
	Create(ctx context.Context, message *ChatMessage) error
	// ListRecent returns the newest messages first
	ListRecent(ctx context.Context, userID UserID, limit int) ([]ChatMessage, error)
}

// ProgressRepository defines the interface for daily progress storage
type ProgressRepository interface {
	Create(ctx context.Context, progress *DailyProgress) error
	// ListRange returns entries with start <= date <= end, oldest first
	ListRange(ctx context.Context, userID UserID, start, end time.Time) ([]DailyProgress, error)
}
