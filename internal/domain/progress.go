package domain

import (
	"time"
)

// DailyProgress is a single progress log entry. Every optional field is a
// pointer so a logged zero stays distinguishable from a missing value.
type DailyProgress struct {
	ID               string    `json:"id"`
	UserID           UserID    `json:"user_id"`
	Date             time.Time `json:"date"`
	Weight           *float64  `json:"weight,omitempty" validate:"omitempty,gte=0"`
	CaloriesConsumed *int      `json:"calories_consumed,omitempty" validate:"omitempty,gte=0"`
	CaloriesBurned   *int      `json:"calories_burned,omitempty" validate:"omitempty,gte=0"`
	WorkoutDuration  *int      `json:"workout_duration,omitempty" validate:"omitempty,gte=0"`
	Steps            *int      `json:"steps,omitempty" validate:"omitempty,gte=0"`
	WaterIntake      *float64  `json:"water_intake,omitempty" validate:"omitempty,gte=0"`
	SleepHours       *float64  `json:"sleep_hours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Mood             *string   `json:"mood,omitempty" validate:"omitempty,max=64"`
	Notes            *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt        time.Time `json:"created_at"`
}
