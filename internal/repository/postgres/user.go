package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// UserRepository implements domain.UserRepository
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, age, weight, height,
	fitness_goals, medical_conditions, injuries, dietary_restrictions, created_at, last_login`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = domain.UserID(uuid.NewString())
	}

	goals, err := json.Marshal(nonNil(user.FitnessGoals))
	if err != nil {
		return fmt.Errorf("failed to marshal fitness goals: %w", err)
	}
	conditions, err := json.Marshal(nonNil(user.MedicalConditions))
	if err != nil {
		return fmt.Errorf("failed to marshal medical conditions: %w", err)
	}
	injuries, err := json.Marshal(nonNil(user.Injuries))
	if err != nil {
		return fmt.Errorf("failed to marshal injuries: %w", err)
	}
	restrictions, err := json.Marshal(nonNil(user.DietaryRestrictions))
	if err != nil {
		return fmt.Errorf("failed to marshal dietary restrictions: %w", err)
	}

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.pool.Exec(ctx, query,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Age,
		user.Weight,
		user.Height,
		goals,
		conditions,
		injuries,
		restrictions,
		user.CreatedAt,
		user.LastLogin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Resource: "User", Field: "email"}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	return scanUser(row)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id.String(), at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "User", ID: id.String()}
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user                                      domain.User
		id                                        string
		goals, conditions, injuries, restrictions []byte
	)

	err := row.Scan(
		&id,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Age,
		&user.Weight,
		&user.Height,
		&goals,
		&conditions,
		&injuries,
		&restrictions,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.ID = domain.UserID(id)
	user.CreatedAt = user.CreatedAt.UTC()
	user.LastLogin = user.LastLogin.UTC()

	for _, field := range []struct {
		raw  []byte
		dest any
	}{
		{goals, &user.FitnessGoals},
		{conditions, &user.MedicalConditions},
		{injuries, &user.Injuries},
		{restrictions, &user.DietaryRestrictions},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return nil, fmt.Errorf("failed to decode user profile: %w", err)
		}
	}

	return &user, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
