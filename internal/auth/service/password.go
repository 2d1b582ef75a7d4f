package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt.
// The cost is the bcrypt work factor, every increment doubles hashing time.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new password hasher.
// A cost outside the bcrypt bounds falls back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt digest of the password
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether the password matches the digest.
// A mismatch returns (false, nil), a malformed digest returns an error.
//
// Passwords longer than MaxPasswordBytes never match: bcrypt only reads the first
// MaxPasswordBytes bytes, so such a password cannot be the one that was hashed.
// The comparison still runs on the truncated prefix to keep the timing the same.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	tooLong := len(password) > MaxPasswordBytes
	if tooLong {
		password = password[:MaxPasswordBytes]
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return !tooLong, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
}
