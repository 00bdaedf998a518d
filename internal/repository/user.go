package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// FindUserByUsername retrieves a user account by username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT username, password_hash, enabled, roles
		FROM users
		WHERE username = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.Enabled,
		pq.Array(&user.Roles),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, clinic.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// SaveUser inserts or replaces a user account, keyed by username.
func (r *Repository) SaveUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, password_hash, enabled, roles)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username)
		DO UPDATE SET password_hash = $2, enabled = $3, roles = $4
	`

	_, err := r.pool.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Enabled,
		pq.Array(user.Roles),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
