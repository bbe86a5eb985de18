package security_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/security"
)

func TestPasswordHasher(t *testing.T) {
	hasher := security.NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext")
	}

	ok, err := hasher.Compare(hash, "correct horse battery")
	if err != nil || !ok {
		t.Errorf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = hasher.Compare(hash, "wrong password")
	if err != nil || ok {
		t.Errorf("expected mismatch without error, got ok=%v err=%v", ok, err)
	}

	if _, err := hasher.Compare("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestPasswordHasher_TooLong(t *testing.T) {
	hasher := security.NewPasswordHasher(bcrypt.MinCost)

	// 72 runes, 144 bytes
	_, err := hasher.Hash(strings.Repeat("é", 72))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := hasher.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("72 bytes should hash, got %v", err)
	}
}
