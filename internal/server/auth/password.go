package auth

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// fallbackDummyHash is used only if a dummy hash cannot be generated.
const fallbackDummyHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8.iFJ7QO8Dm0gYbaH7eB6RQc0LhzU."

// NewDummyHash hashes a random password at cost. Logins for unknown emails
// compare against it, so it must share the cost of real hashes.
func NewDummyHash(cost int) string {
	h, err := HashPassword(rand.Text(), cost)
	if err != nil {
		return fallbackDummyHash
	}
	return h
}

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword compares password with hash. A mismatch is reported as
// common.ErrorUnauthorized.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorUnauthorized
	}
	return fmt.Errorf("compare password: %w", err)
}

// BurnPasswordCheck performs a comparison against dummyHash that always fails.
func BurnPasswordCheck(dummyHash, password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
