package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/security"
)

func validUserCreate() domain.UserCreate {
	return domain.UserCreate{
		Email:        "ana@example.com",
		Password:     "s3cure-passw0rd",
		Name:         "Ana",
		Age:          29,
		FitnessGoals: []domain.FitnessGoal{domain.GoalEndurance},
	}
}

func TestInputValidator_Struct(t *testing.T) {
	v := security.NewInputValidator()

	tests := []struct {
		name      string
		mutate    func(*domain.UserCreate)
		wantField string
	}{
		{"valid", func(*domain.UserCreate) {}, ""},
		{"missing email", func(u *domain.UserCreate) { u.Email = "" }, "email"},
		{"bad email", func(u *domain.UserCreate) { u.Email = "not-an-email" }, "email"},
		{"short password", func(u *domain.UserCreate) { u.Password = "short" }, "password"},
		{"missing name", func(u *domain.UserCreate) { u.Name = "" }, "name"},
		{"no goals", func(u *domain.UserCreate) { u.FitnessGoals = nil }, "fitness_goals"},
		{"unknown goal", func(u *domain.UserCreate) { u.FitnessGoals = []domain.FitnessGoal{"couch"} }, "fitness_goals[0]"},
		{"negative age", func(u *domain.UserCreate) { u.Age = -1 }, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validUserCreate()
			tt.mutate(&input)

			err := v.Struct(input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Contains(t, verr.Fields, tt.wantField)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestInputValidator_Progress(t *testing.T) {
	v := security.NewInputValidator()

	sleep := 30.0
	err := v.Struct(domain.DailyProgress{SleepHours: &sleep})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sleep_hours")

	zero := 0
	assert.NoError(t, v.Struct(domain.DailyProgress{Steps: &zero}))
}

func TestInputValidator_Message(t *testing.T) {
	v := security.NewInputValidator()

	got, err := v.Message("  How should I warm up?\x00\n ")
	require.NoError(t, err)
	assert.Equal(t, "How should I warm up?", got)

	_, err = v.Message(" \t ")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = v.Message(strings.Repeat("a", security.MaxMessageRunes+1))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
