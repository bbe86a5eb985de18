package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// ProgressRepository implements domain.ProgressRepository
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Create inserts a progress entry
func (r *ProgressRepository) Create(ctx context.Context, p *domain.DailyProgress) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO daily_progress (
			id, user_id, date, weight, calories_consumed, calories_burned,
			workout_duration, steps, water_intake, sleep_hours, mood, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID.String(),
		p.Date,
		p.Weight,
		p.CaloriesConsumed,
		p.CaloriesBurned,
		p.WorkoutDuration,
		p.Steps,
		p.WaterIntake,
		p.SleepHours,
		p.Mood,
		p.Notes,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}

	return nil
}

// ListRange retrieves entries dated within [start, end], oldest first
func (r *ProgressRepository) ListRange(ctx context.Context, userID domain.UserID, start, end time.Time) ([]domain.DailyProgress, error) {
	query := `
		SELECT id, user_id, date, weight, calories_consumed, calories_burned,
			workout_duration, steps, water_intake, sleep_hours, mood, notes, created_at
		FROM daily_progress
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, seq ASC
	`

	rows, err := r.pool.Query(ctx, query, userID.String(), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	entries := []domain.DailyProgress{}
	for rows.Next() {
		var (
			p   domain.DailyProgress
			uid string
		)
		err := rows.Scan(
			&p.ID, &uid, &p.Date, &p.Weight, &p.CaloriesConsumed, &p.CaloriesBurned,
			&p.WorkoutDuration, &p.Steps, &p.WaterIntake, &p.SleepHours, &p.Mood, &p.Notes, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		p.UserID = domain.UserID(uid)
		p.Date = p.Date.UTC()
		p.CreatedAt = p.CreatedAt.UTC()
		entries = append(entries, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}

	return entries, nil
}
