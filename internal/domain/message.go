package domain

import (
	"time"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one side of a conversation exchange
type ChatMessage struct {
	ID        string      `json:"id"`
	UserID    UserID      `json:"user_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}
