package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/japanesestudent/user-service/internal/metrics"
	"github.com/japanesestudent/user-service/internal/models"
	"go.uber.org/zap"
)

// authenticationService implements AuthenticationService
type authenticationService struct {
	verifier CredentialVerifier
	userRepo UserRepository
	tokens   TokenIssuer
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAuthenticationService creates a new authentication service
func NewAuthenticationService(
	verifier CredentialVerifier,
	userRepo UserRepository,
	tokens TokenIssuer,
	m *metrics.Metrics,
	logger *zap.Logger,
) *authenticationService {
	return &authenticationService{
		verifier: verifier,
		userRepo: userRepo,
		tokens:   tokens,
		metrics:  m,
		logger:   logger,
	}
}

// Authenticate verifies the credentials and issues an access token.
//
// Unknown usernames and wrong passwords both return models.ErrAuthenticationFailed.
// If the user disappears between verification and lookup, models.ErrNotFound is returned.
func (s *authenticationService) Authenticate(ctx context.Context, req *models.AuthenticationRequest) (*models.AuthenticationResponse, error) {
	if _, err := s.verifier.Verify(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, models.ErrAuthenticationFailed) {
			s.metrics.RecordLogin(metrics.ResultRejected)
			return nil, err
		}
		s.metrics.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultError)
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("user vanished after credential verification", zap.String("username", req.Username))
			return nil, fmt.Errorf("user %q after verification: %w", req.Username, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.Username, user.Role)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordLogin(metrics.ResultSuccess)
	return &models.AuthenticationResponse{Token: token}, nil
}

// CurrentUser returns the stored user for the username carried by a verified token
func (s *authenticationService) CurrentUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
