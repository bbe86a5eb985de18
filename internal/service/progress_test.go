package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/repository/repotest"
	"github.com/Rrens/fitness-coach/internal/security"
)

func ptr[T any](v T) *T { return &v }

func TestProgressService_AddProgress(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	svc := NewProgressService(store.Progress, store.Messages, security.NewInputValidator())
	svc.now = func() time.Time { return fixedNow }

	id, err := svc.AddProgress(ctx, user.ID, domain.DailyProgress{
		UserID:           "someone-else",
		Weight:           ptr(71.8),
		CaloriesConsumed: ptr(0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	entries, err := svc.ListProgress(ctx, user.ID, today, today)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, got.Date.Equal(today), "missing date defaults to today, got %v", got.Date)
	require.NotNil(t, got.CaloriesConsumed)
	assert.Equal(t, 0, *got.CaloriesConsumed)
	assert.Nil(t, got.Steps)

	others, err := svc.ListProgress(ctx, "someone-else", today, today)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestProgressService_AddProgress_KeepsExplicitDate(t *testing.T) {
	progress := new(MockProgressRepository)
	svc := NewProgressService(progress, nil, security.NewInputValidator())
	svc.now = func() time.Time { return fixedNow }

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	progress.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.DailyProgress) bool {
		return p.Date.Equal(date) && p.UserID == "user-1" && p.CreatedAt.Equal(fixedNow)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.DailyProgress).ID = "entry-1"
	}).Return(nil)

	id, err := svc.AddProgress(context.Background(), "user-1", domain.DailyProgress{Date: date, Steps: ptr(9000)})
	require.NoError(t, err)
	assert.Equal(t, "entry-1", id)
	progress.AssertExpectations(t)
}

func TestProgressService_AddProgress_Invalid(t *testing.T) {
	progress := new(MockProgressRepository)
	svc := NewProgressService(progress, nil, security.NewInputValidator())

	_, err := svc.AddProgress(context.Background(), "user-1", domain.DailyProgress{SleepHours: ptr(30.0)})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "sleep_hours")
	progress.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProgressService_ListProgress_InvertedRange(t *testing.T) {
	progress := new(MockProgressRepository)
	svc := NewProgressService(progress, nil, security.NewInputValidator())

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.ListProgress(context.Background(), "user-1", start, start.AddDate(0, 0, -1))

	assert.ErrorIs(t, err, domain.ErrValidation)
	progress.AssertNotCalled(t, "ListRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_ChatHistory_Limit(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{0, 50},
		{-3, 1},
		{1, 1},
		{120, 120},
		{500, 200},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.requested), func(t *testing.T) {
			messages := new(MockMessageRepository)
			messages.On("ListRecent", mock.Anything, domain.UserID("user-1"), tt.want).
				Return([]domain.ChatMessage{}, nil)

			svc := NewProgressService(nil, messages, security.NewInputValidator())
			_, err := svc.ChatHistory(context.Background(), "user-1", tt.requested)

			require.NoError(t, err)
			messages.AssertExpectations(t)
		})
	}
}
