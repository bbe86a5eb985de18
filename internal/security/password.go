package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// PasswordHasher hashes and checks passwords with bcrypt
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher; cost 0 means bcrypt.DefaultCost
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", PasswordTooLong()
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether password matches hash. A mismatch is (false, nil).
func (h *PasswordHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to compare password: %w", err)
}

// PasswordTooLong is the validation error for passwords over MaxPasswordBytes
func PasswordTooLong() error {
	msg := fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)
	return &domain.ValidationError{
		Message: "password " + msg,
		Fields:  map[string]string{"password": msg},
	}
}
