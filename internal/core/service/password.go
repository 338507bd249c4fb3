package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cra-adv/cra-backend/internal/api/metrics"
)

// PasswordHasher produces and verifies bcrypt password hashes. Hashing is
// intentionally slow; the cost is tunable but never below bcrypt's default.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs below
// bcrypt.DefaultCost (10) are raised to it.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash computes a salted bcrypt hash of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	start := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches reports whether plaintext corresponds to the stored hash. It never
// returns an error: a malformed or truncated stored hash is simply a mismatch.
func (h *PasswordHasher) Matches(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
