package domain

import "time"

// PlanKind selects which plan the coach generates
type PlanKind string

const (
	PlanWorkout PlanKind = "workout"
	PlanDiet    PlanKind = "diet"
)

// Plan is a generated workout or diet plan
type Plan struct {
	UserID    UserID    `json:"user_id"`
	Kind      PlanKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"plan"`
}
