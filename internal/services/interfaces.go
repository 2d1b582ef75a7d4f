package services

import (
	"context"

	"github.com/japanesestudent/user-service/internal/models"
)

// UserRepository is the interface that wraps methods for Users table data access
type UserRepository interface {
	// Method FindByUsername retrieves a user by username.
	//
	// "username" parameter is compared exactly, without case folding or trimming.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Method Save inserts a new user into the database and returns the stored record with its generated ID.
	//
	// If the username is already taken, models.ErrConflict will be returned together with "nil" value.
	Save(ctx context.Context, user *models.User) (*models.User, error)
}

// PasswordHasher is the interface that wraps one-way password hashing
type PasswordHasher interface {
	// Method Hash returns a salted digest of the password. Hashing the same password twice yields different digests.
	Hash(password string) (string, error)
	// Method Verify reports whether the password matches the digest.
	//
	// A mismatch is reported as "false" with a "nil" error, an error means the digest could not be checked at all.
	Verify(password, hash string) (bool, error)
}

// TokenIssuer is the interface that wraps signed access token creation
type TokenIssuer interface {
	// Method GenerateToken creates a signed, time-bounded token for the given username and role.
	GenerateToken(username, role string) (string, error)
}

// CredentialVerifier checks a username and password pair.
//
// Verify returns the matching user, or models.ErrAuthenticationFailed when the username is unknown
// or the password is wrong. Any other error means the check itself could not be performed.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*models.User, error)
}
