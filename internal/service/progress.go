package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/security"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ProgressService records daily progress and serves chat history
type ProgressService struct {
	progress  domain.ProgressRepository
	messages  domain.MessageRepository
	validator *security.InputValidator
	now       func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(
	progress domain.ProgressRepository,
	messages domain.MessageRepository,
	validator *security.InputValidator,
) *ProgressService {
	return &ProgressService{
		progress:  progress,
		messages:  messages,
		validator: validator,
		now:       time.Now,
	}
}

// AddProgress stores an entry for userID and returns its id. A missing date
// means today.
func (s *ProgressService) AddProgress(ctx context.Context, userID domain.UserID, entry domain.DailyProgress) (string, error) {
	if err := s.validator.Struct(entry); err != nil {
		return "", err
	}

	now := s.now().UTC()
	entry.ID = ""
	entry.UserID = userID
	if entry.Date.IsZero() {
		entry.Date = now.Truncate(24 * time.Hour)
	}
	entry.Date = entry.Date.UTC()
	entry.CreatedAt = now

	if err := s.progress.Create(ctx, &entry); err != nil {
		return "", fmt.Errorf("failed to save progress: %w", err)
	}
	return entry.ID, nil
}

// ListProgress returns entries dated within [start, end], oldest first
func (s *ProgressService) ListProgress(ctx context.Context, userID domain.UserID, start, end time.Time) ([]domain.DailyProgress, error) {
	if start.After(end) {
		return nil, &domain.ValidationError{
			Message: "start_date must not be after end_date",
			Fields:  map[string]string{"start_date": "must not be after end_date"},
		}
	}

	entries, err := s.progress.ListRange(ctx, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return entries, nil
}

// ChatHistory returns up to limit messages, newest first
func (s *ProgressService) ChatHistory(ctx context.Context, userID domain.UserID, limit int) ([]domain.ChatMessage, error) {
	switch {
	case limit == 0:
		limit = defaultHistoryLimit
	case limit < 1:
		limit = 1
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	messages, err := s.messages.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}
