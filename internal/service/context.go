package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/llm"
)

const messageClipRunes = 280

// ContextOptions bounds what the assembler puts in front of the model
type ContextOptions struct {
	ProgressWindow  time.Duration
	HistoryMessages int
	MaxChars        int
}

// DefaultContextOptions mirrors the configuration defaults
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		ProgressWindow:  7 * 24 * time.Hour,
		HistoryMessages: 10,
		MaxChars:        4000,
	}
}

// ContextAssembler builds the plain-text user summary sent with every request
type ContextAssembler struct {
	users    domain.UserRepository
	progress domain.ProgressRepository
	messages domain.MessageRepository
	opts     ContextOptions
	now      func() time.Time
}

// NewContextAssembler creates a new context assembler
func NewContextAssembler(
	users domain.UserRepository,
	progress domain.ProgressRepository,
	messages domain.MessageRepository,
	opts ContextOptions,
) *ContextAssembler {
	return &ContextAssembler{
		users:    users,
		progress: progress,
		messages: messages,
		opts:     opts,
		now:      time.Now,
	}
}

// Assemble returns the context for userID, or "" when the user is unknown
func (a *ContextAssembler) Assemble(ctx context.Context, userID domain.UserID) (string, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return "", nil
	}

	var (
		progress []domain.DailyProgress
		history  []domain.ChatMessage
	)

	end := a.now().UTC()
	start := end.Add(-a.opts.ProgressWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := a.progress.ListRange(gctx, userID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		progress = entries
		return nil
	})
	if a.opts.HistoryMessages > 0 {
		g.Go(func() error {
			recent, err := a.messages.ListRecent(gctx, userID, a.opts.HistoryMessages)
			if err != nil {
				return fmt.Errorf("failed to load chat history: %w", err)
			}
			history = recent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	writeProfile(&b, user)
	writeProgress(&b, progress)
	writeHistory(&b, history)

	return llm.TruncateRunes(b.String(), a.opts.MaxChars), nil
}

func writeProfile(b *strings.Builder, user *domain.User) {
	goals := make([]string, 0, len(user.FitnessGoals))
	for _, g := range user.FitnessGoals {
		goals = append(goals, string(g))
	}

	b.WriteString("User Profile:\n")
	fmt.Fprintf(b, "Name: %s\n", user.Name)
	fmt.Fprintf(b, "Age: %d\n", user.Age)
	fmt.Fprintf(b, "Goals: %s\n", strings.Join(goals, ", "))
	if len(user.MedicalConditions) > 0 {
		fmt.Fprintf(b, "Medical Conditions: %s\n", strings.Join(user.MedicalConditions, ", "))
	}
	if len(user.Injuries) > 0 {
		fmt.Fprintf(b, "Injuries: %s\n", strings.Join(user.Injuries, ", "))
	}
	if len(user.DietaryRestrictions) > 0 {
		fmt.Fprintf(b, "Dietary Restrictions: %s\n", strings.Join(user.DietaryRestrictions, ", "))
	}
}

// Sub-fields are written on presence, so a logged zero still shows up.
func writeProgress(b *strings.Builder, entries []domain.DailyProgress) {
	if len(entries) == 0 {
		return
	}

	b.WriteString("\nRecent Progress:\n")
	for _, p := range entries {
		fmt.Fprintf(b, "Date: %s\n", p.Date.UTC().Format(time.DateOnly))
		if p.Weight != nil {
			fmt.Fprintf(b, "Weight: %skg\n", strconv.FormatFloat(*p.Weight, 'f', -1, 64))
		}
		if p.WorkoutDuration != nil {
			fmt.Fprintf(b, "Workout: %d minutes\n", *p.WorkoutDuration)
		}
		if p.CaloriesConsumed != nil {
			fmt.Fprintf(b, "Calories: %d\n", *p.CaloriesConsumed)
		}
	}
}

// history arrives newest first and is written oldest first.
func writeHistory(b *strings.Builder, history []domain.ChatMessage) {
	if len(history) == 0 {
		return
	}

	b.WriteString("\nRecent Conversation:\n")
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		content := strings.Join(strings.Fields(m.Content), " ")
		fmt.Fprintf(b, "%s: %s\n", m.Role, llm.Clip(content, messageClipRunes))
	}
}
