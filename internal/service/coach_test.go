package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/llm"
	"github.com/Rrens/fitness-coach/internal/repository"
	"github.com/Rrens/fitness-coach/internal/repository/repotest"
	"github.com/Rrens/fitness-coach/internal/repository/sqlstore"
)

func newSQLiteStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := sqlstore.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.Store()
}

func newCoach(store *repository.Store, provider llm.Provider) *CoachService {
	assembler := NewContextAssembler(store.Users, store.Progress, store.Messages, DefaultContextOptions())
	return NewCoachService(assembler, store.Messages, provider, nil, DefaultCoachOptions())
}

// echoProvider replies with the user's message after a short delay
type echoProvider struct {
	MockProvider
	delay time.Duration
}

func (p *echoProvider) Complete(_ context.Context, req llm.Request, _ string) (*llm.Response, error) {
	time.Sleep(p.delay)
	return &llm.Response{Content: "re: " + req.Messages[len(req.Messages)-1].Content}, nil
}

func TestCoachService_Respond_PersistsExchange(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Messages[2].Content == "first question"
	}), "").Return(&llm.Response{Content: "first answer"}, nil).Once()
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Messages[2].Content == "second question"
	}), "").Return(&llm.Response{Content: "second answer"}, nil).Once()

	coach := newCoach(store, provider)

	reply, err := coach.Respond(ctx, user.ID, "first question")
	require.NoError(t, err)
	assert.Equal(t, "first answer", reply)

	reply, err = coach.Respond(ctx, user.ID, "second question")
	require.NoError(t, err)
	assert.Equal(t, "second answer", reply)

	history, err := store.Messages.ListRecent(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 4)

	// Newest first: assistant, user, assistant, user.
	assert.Equal(t, []string{"second answer", "second question", "first answer", "first question"},
		[]string{history[0].Content, history[1].Content, history[2].Content, history[3].Content})
	assert.Equal(t, domain.RoleAssistant, history[0].Role)
	assert.Equal(t, domain.RoleUser, history[1].Role)
	provider.AssertExpectations(t)
}

func TestCoachService_Respond_SendsContextAndParameters(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	var captured llm.Request
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "gpt-4").
		Run(func(args mock.Arguments) { captured = args.Get(1).(llm.Request) }).
		Return(&llm.Response{Content: "ok"}, nil)

	assembler := NewContextAssembler(store.Users, store.Progress, store.Messages, DefaultContextOptions())
	opts := DefaultCoachOptions()
	opts.Model = "gpt-4"
	coach := NewCoachService(assembler, store.Messages, provider, NewKeyedMutex(), opts)

	_, err := coach.Respond(ctx, user.ID, "hello coach")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 3)
	assert.Equal(t, llm.SystemDirective, captured.Messages[0].Content)
	assert.Contains(t, captured.Messages[1].Content, "User Context:\nUser Profile:\nName: Test User\n")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hello coach"}, captured.Messages[2])
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	assert.Equal(t, 500, captured.MaxTokens)
}

func TestCoachService_Respond_ProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		resp *llm.Response
		err  error
	}{
		{"transport error", nil, errors.New("connection refused")},
		{"empty reply", &llm.Response{Content: "  "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSQLiteStore(t)
			ctx := context.Background()

			user := repotest.NewUser()
			require.NoError(t, store.Users.Create(ctx, user))

			provider := new(MockProvider)
			if tt.resp == nil {
				provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(tt.resp, nil)
			}

			reply, err := newCoach(store, provider).Respond(ctx, user.ID, "hi")
			require.NoError(t, err)
			assert.Equal(t, FallbackReply, reply)

			history, err := store.Messages.ListRecent(ctx, user.ID, 10)
			require.NoError(t, err)
			assert.Empty(t, history, "failed exchanges must not be persisted")
		})
	}
}

func TestCoachService_Respond_Timeout(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	assembler := NewContextAssembler(store.Users, store.Progress, store.Messages, DefaultContextOptions())
	opts := DefaultCoachOptions()
	opts.Timeout = 50 * time.Millisecond
	coach := NewCoachService(assembler, store.Messages, provider, nil, opts)

	start := time.Now()
	reply, err := coach.Respond(ctx, user.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCoachService_Respond_PersistenceFailure(t *testing.T) {
	users := new(MockUserRepository)
	progress := new(MockProgressRepository)
	messages := new(MockMessageRepository)
	boom := errors.New("disk full")

	users.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)
	messages.On("Create", mock.Anything, mock.Anything).Return(boom)

	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(&llm.Response{Content: "answer"}, nil)

	assembler := NewContextAssembler(users, progress, messages, DefaultContextOptions())
	coach := NewCoachService(assembler, messages, provider, nil, DefaultCoachOptions())

	_, err := coach.Respond(context.Background(), "user-1", "hi")
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrUpstream))
	messages.AssertNumberOfCalls(t, "Create", 1)
}

func TestCoachService_Respond_ConcurrentExchangesDoNotInterleave(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	provider := &echoProvider{delay: 5 * time.Millisecond}
	coach := newCoach(store, provider)

	const n = 5
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := coach.Respond(ctx, user.ID, fmt.Sprintf("q%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := store.Messages.ListRecent(ctx, user.ID, 100)
	require.NoError(t, err)
	require.Len(t, history, 2*n)

	// Oldest first, every user message is directly followed by its reply.
	for i := len(history) - 1; i > 0; i -= 2 {
		question, answer := history[i], history[i-1]
		assert.Equal(t, domain.RoleUser, question.Role)
		assert.Equal(t, domain.RoleAssistant, answer.Role)
		assert.Equal(t, "re: "+question.Content, answer.Content)
	}
}

func TestCoachService_GeneratePlans(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Messages[2].Content == llm.WorkoutPlanInstruction && req.MaxTokens == 1000
	}), mock.Anything).Return(&llm.Response{Content: "Mon: squats"}, nil)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Messages[2].Content == llm.DietPlanInstruction && req.MaxTokens == 1000
	}), mock.Anything).Return(&llm.Response{Content: "Breakfast: oats"}, nil)

	coach := newCoach(store, provider)

	workout, err := coach.GenerateWorkoutPlan(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanWorkout, workout.Kind)
	assert.Equal(t, "Mon: squats", workout.Text)
	assert.Equal(t, user.ID, workout.UserID)
	assert.False(t, workout.CreatedAt.IsZero())

	diet, err := coach.GenerateDietPlan(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDiet, diet.Kind)
	assert.Equal(t, "Breakfast: oats", diet.Text)

	history, err := store.Messages.ListRecent(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history, "plans are not part of the conversation")
}

func TestCoachService_GeneratePlan_ProviderFailure(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := repotest.NewUser()
	require.NoError(t, store.Users.Create(ctx, user))

	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("status 503"))

	plan, err := newCoach(store, provider).GenerateWorkoutPlan(ctx, user.ID)
	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}
