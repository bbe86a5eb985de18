package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/security"
)

// AuthService handles registration, login and token resolution
type AuthService struct {
	users     domain.UserRepository
	hasher    *security.PasswordHasher
	tokens    *security.TokenService
	validator *security.InputValidator
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	users domain.UserRepository,
	hasher *security.PasswordHasher,
	tokens *security.TokenService,
	validator *security.InputValidator,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		now:       time.Now,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	// max=72 on the field counts runes, bcrypt counts bytes
	if len(input.Password) > security.MaxPasswordBytes {
		return nil, security.PasswordTooLong()
	}

	exists, err := s.users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, &domain.ConflictError{Resource: "User", Field: "email"}
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:               input.Email,
		PasswordHash:        hashed,
		Name:                input.Name,
		Age:                 input.Age,
		Weight:              input.Weight,
		Height:              input.Height,
		FitnessGoals:        input.FitnessGoals,
		MedicalConditions:   orEmpty(input.MedicalConditions),
		Injuries:            orEmpty(input.Injuries),
		DietaryRestrictions: orEmpty(input.DietaryRestrictions),
		CreatedAt:           now,
		LastLogin:           now,
	}

	// The unique index still catches a registration racing the pre-check.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login checks the password and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.NewAuthError(domain.InvalidCredential, errors.New("missing username or password"))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewAuthError(domain.InvalidCredential, errors.New("unknown email"))
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewAuthError(domain.InvalidCredential, errors.New("password mismatch"))
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}

	return &domain.Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Authenticate verifies a bearer token and resolves its subject
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewAuthError(domain.UnknownSubject, fmt.Errorf("no user %s", subject))
	}

	return user, nil
}

// Authorize allows access only when the acting identity owns the resource
func Authorize(actor, owner domain.UserID) error {
	if actor != owner {
		return domain.NewAuthError(domain.Forbidden, fmt.Errorf("user %s may not access %s", actor, owner))
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
