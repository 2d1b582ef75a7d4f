package services

import (
	"context"
	"testing"
	"time"

	"github.com/japanesestudent/user-service/internal/auth/service"
	"github.com/japanesestudent/user-service/internal/metrics"
	"github.com/japanesestudent/user-service/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAuthenticationService(t *testing.T) {
	logger := zap.NewNop()
	verifier := &mockCredentialVerifier{}
	repo := &mockUserRepository{}
	tokens := &mockTokenIssuer{}

	svc := NewAuthenticationService(verifier, repo, tokens, nil, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, verifier, svc.verifier)
	assert.Equal(t, repo, svc.userRepo)
	assert.Equal(t, tokens, svc.tokens)
	assert.Equal(t, logger, svc.logger)
}

func TestAuthenticationService_Authenticate(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", PasswordHash: "hashed", Role: models.RoleUser}

	tests := []struct {
		name          string
		verifier      *mockCredentialVerifier
		repo          *mockUserRepository
		tokens        *mockTokenIssuer
		expectedError error
		expectError   bool
		expectedToken string
	}{
		{
			name:          "success",
			verifier:      &mockCredentialVerifier{user: alice},
			repo:          &mockUserRepository{user: alice},
			tokens:        &mockTokenIssuer{token: "signed-token"},
			expectedToken: "signed-token",
		},
		{
			name:          "invalid credentials",
			verifier:      &mockCredentialVerifier{err: models.ErrAuthenticationFailed},
			repo:          &mockUserRepository{user: alice},
			tokens:        &mockTokenIssuer{token: "signed-token"},
			expectError:   true,
			expectedError: models.ErrAuthenticationFailed,
		},
		{
			name:        "verifier error",
			verifier:    &mockCredentialVerifier{err: errDatabase},
			repo:        &mockUserRepository{user: alice},
			tokens:      &mockTokenIssuer{token: "signed-token"},
			expectError: true,
		},
		{
			name:          "user vanished after verification",
			verifier:      &mockCredentialVerifier{user: alice},
			repo:          &mockUserRepository{findErr: models.ErrNotFound},
			tokens:        &mockTokenIssuer{token: "signed-token"},
			expectError:   true,
			expectedError: models.ErrNotFound,
		},
		{
			name:        "lookup error after verification",
			verifier:    &mockCredentialVerifier{user: alice},
			repo:        &mockUserRepository{findErr: errDatabase},
			tokens:      &mockTokenIssuer{token: "signed-token"},
			expectError: true,
		},
		{
			name:        "token generation error",
			verifier:    &mockCredentialVerifier{user: alice},
			repo:        &mockUserRepository{user: alice},
			tokens:      &mockTokenIssuer{err: errDatabase},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthenticationService(tt.verifier, tt.repo, tt.tokens, nil, zap.NewNop())

			resp, err := svc.Authenticate(context.Background(), &models.AuthenticationRequest{Username: "alice", Password: "secret1"})

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, resp)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.NotErrorIs(t, err, models.ErrAuthenticationFailed)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedToken, resp.Token)
		})
	}
}

func TestAuthenticationService_CurrentUser(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", PasswordHash: "hashed", Role: models.RoleUser}

	t.Run("success", func(t *testing.T) {
		svc := NewAuthenticationService(&mockCredentialVerifier{}, &mockUserRepository{user: alice}, &mockTokenIssuer{}, nil, zap.NewNop())
		user, err := svc.CurrentUser(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, alice, user)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewAuthenticationService(&mockCredentialVerifier{}, &mockUserRepository{findErr: models.ErrNotFound}, &mockTokenIssuer{}, nil, zap.NewNop())
		user, err := svc.CurrentUser(context.Background(), "alice")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		svc := NewAuthenticationService(&mockCredentialVerifier{}, &mockUserRepository{findErr: errDatabase}, &mockTokenIssuer{}, nil, zap.NewNop())
		user, err := svc.CurrentUser(context.Background(), "alice")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, user)
	})
}

// TestRegisterAndLoginScenario runs the full register and login sequence against real hashing and signing
func TestRegisterAndLoginScenario(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	repo := newMemoryUserRepository()
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	tokens := service.NewTokenGenerator("scenario-secret", time.Hour)

	verifier, err := NewCredentialVerifier(repo, hasher, logger)
	require.NoError(t, err)
	registration := NewRegistrationService(repo, hasher, m, logger)
	authentication := NewAuthenticationService(verifier, repo, tokens, m, logger)

	user, err := registration.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = registration.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "other12"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 1, repo.count())

	resp, err := authentication.Authenticate(ctx, &models.AuthenticationRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now()))

	_, wrongPasswordErr := authentication.Authenticate(ctx, &models.AuthenticationRequest{Username: "alice", Password: "wrong12"})
	assert.ErrorIs(t, wrongPasswordErr, models.ErrAuthenticationFailed)

	_, unknownUserErr := authentication.Authenticate(ctx, &models.AuthenticationRequest{Username: "mallory", Password: "secret1"})
	assert.ErrorIs(t, unknownUserErr, models.ErrAuthenticationFailed)
	assert.Equal(t, wrongPasswordErr.Error(), unknownUserErr.Error())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultRejected)))
}
