package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/llm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListRecent(ctx context.Context, userID domain.UserID, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

// MockProgressRepository mocks the ProgressRepository interface
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Create(ctx context.Context, progress *domain.DailyProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) ListRange(ctx context.Context, userID domain.UserID, start, end time.Time) ([]domain.DailyProgress, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Get(0).([]domain.DailyProgress), args.Error(1)
}

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) AvailableModels() []string {
	return []string{"mock-model"}
}

func (m *MockProvider) DefaultModel() string {
	return "mock-model"
}

func (m *MockProvider) IsConfigured() bool {
	return true
}

func (m *MockProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}
