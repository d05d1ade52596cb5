// Package users holds account lookup and session verification. Session
// issuance (sign-in, sign-up) is not part of this service; it only reads
// what an external auth service wrote.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wishwell/wishwell/internal/models"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// Repository implements user data access operations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a users repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UserByID retrieves a user by id.
func (r *Repository) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.user(ctx, "id = $1", id)
}

// UserByEmail retrieves a user by email.
func (r *Repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.user(ctx, "email = $1", email)
}

func (r *Repository) user(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, email, nickname, created_at
		FROM users
		WHERE ` + where

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Nickname, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UserBySessionToken resolves a non-expired session token to its user.
func (r *Repository) UserBySessionToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.nickname, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW()`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&u.ID, &u.Email, &u.Nickname, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return u, nil
}
