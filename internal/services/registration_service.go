package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/japanesestudent/user-service/internal/auth/service"
	"github.com/japanesestudent/user-service/internal/metrics"
	"github.com/japanesestudent/user-service/internal/models"
	"go.uber.org/zap"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// registrationService implements RegistrationService
type registrationService struct {
	userRepo UserRepository
	hasher   PasswordHasher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(userRepo UserRepository, hasher PasswordHasher, m *metrics.Metrics, logger *zap.Logger) *registrationService {
	return &registrationService{
		userRepo: userRepo,
		hasher:   hasher,
		metrics:  m,
		logger:   logger,
	}
}

// Register validates the credentials and creates a new user with the default role.
//
// Any role supplied by the caller is ignored. Validation failures are reported as models.ErrBadInput,
// a taken username as models.ErrConflict. Nothing is written unless every check passes.
func (s *registrationService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := validateCredentials(req.Username, req.Password); err != nil {
		s.metrics.RecordRegistration(metrics.ResultRejected)
		return nil, err
	}

	// Fast path for the common duplicate case, the unique index in Save covers the race
	_, err := s.userRepo.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		s.metrics.RecordRegistration(metrics.ResultConflict)
		return nil, fmt.Errorf("username %q: %w", req.Username, models.ErrConflict)
	case !errors.Is(err, models.ErrNotFound):
		s.metrics.RecordRegistration(metrics.ResultError)
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.RecordRegistration(metrics.ResultError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Save(ctx, &models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.metrics.RecordRegistration(metrics.ResultConflict)
			return nil, err
		}
		s.metrics.RecordRegistration(metrics.ResultError)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.metrics.RecordRegistration(metrics.ResultSuccess)
	s.logger.Info("user registered", zap.Int("userId", user.ID), zap.String("username", user.Username))

	return user, nil
}

// validateCredentials checks username and password length constraints.
// Lengths are counted in characters, the bcrypt byte limit is checked separately.
func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", models.ErrBadInput)
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters long", models.ErrBadInput, minUsernameLength)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", models.ErrBadInput)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", models.ErrBadInput, minPasswordLength)
	}
	if len(password) > service.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes long", models.ErrBadInput, service.MaxPasswordBytes)
	}
	return nil
}
