package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/japanesestudent/user-service/internal/models"
	"go.uber.org/zap"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// userRepository implements UserRepository
type userRepository struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
	logger  *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger:  logger,
	}
}

// FindByUsername retrieves a user by username.
// models.ErrNotFound is returned if no such user exists.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query, args, err := r.builder.
		Select("id", "username", "password_hash", "role").
		From("users").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// Save inserts a new user into the database and returns it with the generated ID.
//
// The unique index on username makes the insert itself the authoritative duplicate check,
// a violation is reported as models.ErrConflict.
func (r *userRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	query, args, err := r.builder.
		Insert("users").
		Columns("username", "password_hash", "role").
		Values(user.Username, user.PasswordHash, user.Role).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, fmt.Errorf("username %q: %w", user.Username, models.ErrConflict)
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	saved := *user
	saved.ID = int(id)
	return &saved, nil
}
