package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/japanesestudent/user-service/internal/models"
	"go.uber.org/zap"
)

// dummyPassword is hashed once so unknown usernames cost the same bcrypt comparison as known ones
const dummyPassword = "user-service-timing-equalizer"

// credentialVerifier implements CredentialVerifier on top of the user store and password hasher
type credentialVerifier struct {
	userRepo  UserRepository
	hasher    PasswordHasher
	dummyHash string
	logger    *zap.Logger
}

// NewCredentialVerifier creates a new credential verifier
func NewCredentialVerifier(userRepo UserRepository, hasher PasswordHasher, logger *zap.Logger) (*credentialVerifier, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credential verifier: %w", err)
	}

	return &credentialVerifier{
		userRepo:  userRepo,
		hasher:    hasher,
		dummyHash: dummyHash,
		logger:    logger,
	}, nil
}

// Verify looks up the user and compares the password against the stored hash
func (v *credentialVerifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Spend the same hashing time as for an existing user
			v.hasher.Verify(password, v.dummyHash)
			return nil, models.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := v.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		v.logger.Error("stored password hash is unreadable", zap.Int("userId", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, models.ErrAuthenticationFailed
	}

	return user, nil
}
