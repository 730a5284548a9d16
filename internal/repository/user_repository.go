package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/repository/models"
)

const userColumns = `id "id",
		username "username",
		email "email",
		password_hash "password_hash",
		created_at "created_at",
		updated_at "updated_at"`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db      DBTX
	dialect Dialect
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db, dialect: DialectFor(db.DriverName())}
}

// CreateUser inserts a new user into the database.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot create nil user")
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	m := fromDomainUser(user)

	query := r.dialect.Rebind(`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Username, m.Email, m.PasswordHash, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsernameOrEmail returns the first user whose username or email
// matches.
func (r *sqlxUserRepository) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	query := r.dialect.Rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ? OR email = ? ` + r.dialect.FirstRow())
	return r.getOne(ctx, query, username, email)
}

// GetUserByID retrieves a user by their internal ID.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := r.dialect.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return r.getOne(ctx, query, userID)
}

func (r *sqlxUserRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var user models.User
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&user), nil
}

// IsEmailTaken reports whether a user other than excludeUserID owns email.
func (r *sqlxUserRepository) IsEmailTaken(ctx context.Context, email, excludeUserID string) (bool, error) {
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`)
	var n int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &n, query, email, excludeUserID); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// UpdateEmail changes the email of userID.
func (r *sqlxUserRepository) UpdateEmail(ctx context.Context, userID, email string) error {
	query := r.dialect.Rebind(`UPDATE users SET email = ?, updated_at = ? WHERE id = ?`)
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, email, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
