// Package repotest holds the behaviour every store driver must share.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/repository"
)

// Run exercises the repositories of store. The store must be empty.
func Run(t *testing.T, store *repository.Store) {
	t.Helper()

	t.Run("Users", func(t *testing.T) { testUsers(t, store) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, store) })
	t.Run("Progress", func(t *testing.T) { testProgress(t, store) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, store.Ping(context.Background())) })
}

// NewUser returns a user with a fresh id and email
func NewUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.User{
		Email:               uuid.NewString()[:12] + "@example.com",
		PasswordHash:        "$2a$04$hash",
		Name:                "Test User",
		Age:                 31,
		Weight:              72.5,
		Height:              178,
		FitnessGoals:        []domain.FitnessGoal{domain.GoalMuscleGain, domain.GoalEndurance},
		MedicalConditions:   []string{"asthma"},
		Injuries:            []string{},
		DietaryRestrictions: []string{"vegetarian"},
		CreatedAt:           now,
		LastLogin:           now,
	}
}

func testUsers(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Users

	user := NewUser()
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID, "store must assign an id")

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)
		assert.Equal(t, user.FitnessGoals, got.FitnessGoals)
		assert.Equal(t, user.MedicalConditions, got.MedicalConditions)
		assert.Equal(t, user.DietaryRestrictions, got.DietaryRestrictions)
		assert.Empty(t, got.Injuries)
		assert.WithinDuration(t, user.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		got, err := repo.GetByID(ctx, domain.UserID(uuid.NewString()))
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("email exists", func(t *testing.T) {
		exists, err := repo.EmailExists(ctx, user.Email)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.EmailExists(ctx, "free@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := NewUser()
		dup.Email = user.Email
		err := repo.Create(ctx, dup)
		assert.True(t, errors.Is(err, domain.ErrConflict), "expected conflict, got %v", err)
	})

	t.Run("update last login", func(t *testing.T) {
		at := user.LastLogin.Add(time.Hour)
		require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, at, got.LastLogin, time.Millisecond)

		err = repo.UpdateLastLogin(ctx, domain.UserID(uuid.NewString()), at)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "expected not found, got %v", err)
	})
}

func testMessages(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	user := NewUser()
	require.NoError(t, store.Users.Create(ctx, user))
	other := NewUser()
	require.NoError(t, store.Users.Create(ctx, other))

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, store.Messages.Create(ctx, &domain.ChatMessage{
			UserID:    user.ID,
			Role:      domain.RoleUser,
			Content:   content,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// Same timestamp: insertion order breaks the tie.
	tie := base.Add(10 * time.Minute)
	for _, msg := range []struct {
		role    domain.MessageRole
		content string
	}{{domain.RoleUser, "question"}, {domain.RoleAssistant, "answer"}} {
		require.NoError(t, store.Messages.Create(ctx, &domain.ChatMessage{
			UserID:    user.ID,
			Role:      msg.role,
			Content:   msg.content,
			Timestamp: tie,
		}))
	}

	require.NoError(t, store.Messages.Create(ctx, &domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    other.ID,
		Role:      domain.RoleUser,
		Content:   "not yours",
		Timestamp: base.Add(time.Hour),
	}))

	got, err := store.Messages.ListRecent(ctx, user.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "answer", got[0].Content)
	assert.Equal(t, domain.RoleAssistant, got[0].Role)
	assert.Equal(t, "question", got[1].Content)
	assert.Equal(t, "third", got[2].Content)
	for _, m := range got {
		assert.Equal(t, user.ID, m.UserID)
	}

	all, err := store.Messages.ListRecent(ctx, user.ID, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := store.Messages.ListRecent(ctx, domain.UserID(uuid.NewString()), 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testProgress(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	user := NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }
	weight := 80.5
	minutes := 45
	zero := 0
	mood := "tired"

	entries := []domain.DailyProgress{
		{Date: day(3), Weight: &weight},
		{Date: day(1), WorkoutDuration: &minutes, Mood: &mood},
		{Date: day(5), CaloriesConsumed: &zero},
		{Date: day(9)},
	}
	for i := range entries {
		entries[i].UserID = user.ID
		entries[i].CreatedAt = time.Now().UTC()
		require.NoError(t, store.Progress.Create(ctx, &entries[i]))
		require.NotEmpty(t, entries[i].ID)
	}

	got, err := store.Progress.ListRange(ctx, user.ID, day(1), day(5))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[0].Date.Equal(day(1)))
	assert.True(t, got[1].Date.Equal(day(3)))
	assert.True(t, got[2].Date.Equal(day(5)))

	require.NotNil(t, got[0].WorkoutDuration)
	assert.Equal(t, 45, *got[0].WorkoutDuration)
	require.NotNil(t, got[0].Mood)
	assert.Equal(t, "tired", *got[0].Mood)
	assert.Nil(t, got[0].Weight)

	require.NotNil(t, got[1].Weight)
	assert.InDelta(t, 80.5, *got[1].Weight, 1e-9)

	require.NotNil(t, got[2].CaloriesConsumed, "a logged zero must survive")
	assert.Equal(t, 0, *got[2].CaloriesConsumed)

	empty, err := store.Progress.ListRange(ctx, user.ID, day(20), day(25))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
