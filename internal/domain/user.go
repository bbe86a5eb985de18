package domain

import (
	"time"
)

// UserID identifies a user across every store. Two ids are the same user
// only when their string forms are identical.
type UserID string

// String returns the raw identifier
func (id UserID) String() string {
	return string(id)
}

// FitnessGoal is one of the goals a user can train towards
type FitnessGoal string

const (
	GoalWeightLoss     FitnessGoal = "weight_loss"
	GoalMuscleGain     FitnessGoal = "muscle_gain"
	GoalEndurance      FitnessGoal = "endurance"
	GoalFlexibility    FitnessGoal = "flexibility"
	GoalGeneralFitness FitnessGoal = "general_fitness"
)

// Valid reports whether g is a known goal
func (g FitnessGoal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalFlexibility, GoalGeneralFitness:
		return true
	}
	return false
}

// User represents a registered user and their fitness profile
type User struct {
	ID                  UserID        `json:"id"`
	Email               string        `json:"email"`
	PasswordHash        string        `json:"-"`
	Name                string        `json:"name"`
	Age                 int           `json:"age"`
	Weight              float64       `json:"weight"`
	Height              float64       `json:"height"`
	FitnessGoals        []FitnessGoal `json:"fitness_goals"`
	MedicalConditions   []string      `json:"medical_conditions"`
	Injuries            []string      `json:"injuries"`
	DietaryRestrictions []string      `json:"dietary_restrictions"`
	CreatedAt           time.Time     `json:"created_at"`
	LastLogin           time.Time     `json:"last_login"`
}

// UserCreate represents user registration data
type UserCreate struct {
	Email               string        `json:"email" validate:"required,email,max=255"`
	Password            string        `json:"password" validate:"required,min=8,max=72"`
	Name                string        `json:"name" validate:"required,max=120"`
	Age                 int           `json:"age" validate:"gte=0,lte=150"`
	Weight              float64       `json:"weight" validate:"gte=0"`
	Height              float64       `json:"height" validate:"gte=0"`
	FitnessGoals        []FitnessGoal `json:"fitness_goals" validate:"required,min=1,dive,oneof=weight_loss muscle_gain endurance flexibility general_fitness"`
	MedicalConditions   []string      `json:"medical_conditions" validate:"omitempty,dive,max=200"`
	Injuries            []string      `json:"injuries" validate:"omitempty,dive,max=200"`
	DietaryRestrictions []string      `json:"dietary_restrictions" validate:"omitempty,dive,max=200"`
}

// Token is the bearer credential handed out on login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
