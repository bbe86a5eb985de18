package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// UserRepository implements domain.UserRepository
type UserRepository struct {
	db *sql.DB
}

const userColumns = `id, email, password_hash, name, age, weight, height,
	fitness_goals, medical_conditions, injuries, dietary_restrictions, created_at, last_login`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = domain.UserID(uuid.NewString())
	}

	lists := make([]string, 0, 4)
	for _, v := range []any{
		nonNil(user.FitnessGoals),
		nonNil(user.MedicalConditions),
		nonNil(user.Injuries),
		nonNil(user.DietaryRestrictions),
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal user profile: %w", err)
		}
		lists = append(lists, string(raw))
	}

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Age,
		user.Weight,
		user.Height,
		lists[0],
		lists[1],
		lists[2],
		lists[3],
		formatTime(user.CreatedAt),
		formatTime(user.LastLogin),
	)
	if err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{Resource: "User", Field: "email"}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, formatTime(at), id.String())
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: "User", ID: id.String()}
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user                                      domain.User
		id, createdAt, lastLogin                  string
		goals, conditions, injuries, restrictions string
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
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
		&createdAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.ID = domain.UserID(id)
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.LastLogin, err = parseTime(lastLogin); err != nil {
		return nil, err
	}

	for _, field := range []struct {
		raw  string
		dest any
	}{
		{goals, &user.FitnessGoals},
		{conditions, &user.MedicalConditions},
		{injuries, &user.Injuries},
		{restrictions, &user.DietaryRestrictions},
	} {
		if field.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(field.raw), field.dest); err != nil {
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
