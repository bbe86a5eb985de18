package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/llm"
)

// FallbackReply is returned to the user when the model provider fails
const FallbackReply = "I apologize, but I'm having trouble processing your request right now. Please try again later."

// CoachOptions are the generation parameters for the coach
type CoachOptions struct {
	Model         string
	Temperature   float64
	ChatMaxTokens int
	PlanMaxTokens int
	Timeout       time.Duration
}

// DefaultCoachOptions mirrors the configuration defaults
func DefaultCoachOptions() CoachOptions {
	return CoachOptions{
		Temperature:   0.7,
		ChatMaxTokens: 500,
		PlanMaxTokens: 1000,
		Timeout:       60 * time.Second,
	}
}

// CoachService runs chat exchanges and plan generation against the model
type CoachService struct {
	assembler *ContextAssembler
	messages  domain.MessageRepository
	provider  llm.Provider
	locker    Locker
	opts      CoachOptions
	now       func() time.Time
}

// NewCoachService creates a new coach service
func NewCoachService(
	assembler *ContextAssembler,
	messages domain.MessageRepository,
	provider llm.Provider,
	locker Locker,
	opts CoachOptions,
) *CoachService {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &CoachService{
		assembler: assembler,
		messages:  messages,
		provider:  provider,
		locker:    locker,
		opts:      opts,
		now:       time.Now,
	}
}

// Respond answers a user message. Provider failures yield FallbackReply and
// leave history untouched; store failures are returned.
func (s *CoachService) Respond(ctx context.Context, userID domain.UserID, message string) (string, error) {
	unlock, err := s.locker.Lock(ctx, userID.String())
	if err != nil {
		return "", err
	}
	defer unlock()

	userContext, err := s.assembler.Assemble(ctx, userID)
	if err != nil {
		return "", err
	}

	resp, err := s.complete(ctx, userContext, message, s.opts.ChatMaxTokens)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("provider", s.provider.Name()).
			Msg("chat completion failed")
		return FallbackReply, nil
	}

	if err := s.persist(ctx, userID, domain.RoleUser, message); err != nil {
		return "", err
	}
	if err := s.persist(ctx, userID, domain.RoleAssistant, resp.Content); err != nil {
		return "", err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("chat exchange completed")

	return resp.Content, nil
}

// GenerateWorkoutPlan asks the model for a workout plan
func (s *CoachService) GenerateWorkoutPlan(ctx context.Context, userID domain.UserID) (*domain.Plan, error) {
	return s.generatePlan(ctx, userID, domain.PlanWorkout, llm.WorkoutPlanInstruction)
}

// GenerateDietPlan asks the model for a diet plan
func (s *CoachService) GenerateDietPlan(ctx context.Context, userID domain.UserID) (*domain.Plan, error) {
	return s.generatePlan(ctx, userID, domain.PlanDiet, llm.DietPlanInstruction)
}

func (s *CoachService) generatePlan(ctx context.Context, userID domain.UserID, kind domain.PlanKind, instruction string) (*domain.Plan, error) {
	userContext, err := s.assembler.Assemble(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.complete(ctx, userContext, instruction, s.opts.PlanMaxTokens)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("provider", s.provider.Name()).
			Str("plan", string(kind)).
			Msg("plan generation failed")
		return nil, &domain.UpstreamError{Provider: s.provider.Name(), Err: err}
	}

	return &domain.Plan{
		UserID:    userID,
		Kind:      kind,
		CreatedAt: s.now().UTC(),
		Text:      resp.Content,
	}, nil
}

func (s *CoachService) complete(ctx context.Context, userContext, message string, maxTokens int) (*llm.Response, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		Messages:    llm.BuildMessages(userContext, message),
		Temperature: s.opts.Temperature,
		MaxTokens:   maxTokens,
	}, s.opts.Model)
	if err != nil {
		return nil, err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, errors.New("empty completion")
	}
	return resp, nil
}

func (s *CoachService) persist(ctx context.Context, userID domain.UserID, role domain.MessageRole, content string) error {
	err := s.messages.Create(ctx, &domain.ChatMessage{
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save %s message: %w", role, err)
	}
	return nil
}
