package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// ProgressRepository implements domain.ProgressRepository
type ProgressRepository struct {
	db *sql.DB
}

// Create inserts a progress entry
func (r *ProgressRepository) Create(ctx context.Context, p *domain.DailyProgress) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_progress (
			id, user_id, date, weight, calories_consumed, calories_burned,
			workout_duration, steps, water_intake, sleep_hours, mood, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID.String(),
		formatTime(p.Date),
		value(p.Weight),
		value(p.CaloriesConsumed),
		value(p.CaloriesBurned),
		value(p.WorkoutDuration),
		value(p.Steps),
		value(p.WaterIntake),
		value(p.SleepHours),
		value(p.Mood),
		value(p.Notes),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

// ListRange retrieves entries dated within [start, end], oldest first
func (r *ProgressRepository) ListRange(ctx context.Context, userID domain.UserID, start, end time.Time) ([]domain.DailyProgress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, weight, calories_consumed, calories_burned,
			workout_duration, steps, water_intake, sleep_hours, mood, notes, created_at
		FROM daily_progress
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, seq ASC`,
		userID.String(), formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	entries := []domain.DailyProgress{}
	for rows.Next() {
		var (
			p                          domain.DailyProgress
			uid, date, createdAt       string
			weight, water, sleep       sql.NullFloat64
			consumed, burned, duration sql.NullInt64
			steps                      sql.NullInt64
			mood, notes                sql.NullString
		)
		err := rows.Scan(
			&p.ID, &uid, &date, &weight, &consumed, &burned,
			&duration, &steps, &water, &sleep, &mood, &notes, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}

		if p.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		p.UserID = domain.UserID(uid)
		p.Weight = floatPtr(weight)
		p.WaterIntake = floatPtr(water)
		p.SleepHours = floatPtr(sleep)
		p.CaloriesConsumed = intPtr(consumed)
		p.CaloriesBurned = intPtr(burned)
		p.WorkoutDuration = intPtr(duration)
		p.Steps = intPtr(steps)
		p.Mood = stringPtr(mood)
		p.Notes = stringPtr(notes)

		entries = append(entries, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}
	return entries, nil
}

// value unwraps an optional field so drivers see a plain value or NULL
func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
