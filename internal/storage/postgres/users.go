package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/mmynk/superlists/internal/models"
)

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)",
		user.ID, user.Email, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, email, created_at FROM users WHERE email = $1", email)
}

// GetUserByID retrieves a user by their ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, email, created_at FROM users WHERE id = $1", id)
}

func (s *PostgresStore) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	user := &models.User{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", arg, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateToken persists a new login token.
func (s *PostgresStore) CreateToken(ctx context.Context, token *models.LoginToken) error {
	if token.CreatedAt == 0 {
		token.CreatedAt = time.Now().Unix()
	}

	_, err := s.pool.Exec(ctx,
		"INSERT INTO login_tokens (hash, email, created_at) VALUES ($1, $2, $3)",
		token.Hash, token.Email, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login token: %w", err)
	}
	return nil
}

// ConsumeToken deletes the token and returns it.
func (s *PostgresStore) ConsumeToken(ctx context.Context, hash string) (*models.LoginToken, error) {
	token := &models.LoginToken{}
	err := s.pool.QueryRow(ctx,
		"DELETE FROM login_tokens WHERE hash = $1 RETURNING hash, email, created_at",
		hash,
	).Scan(&token.Hash, &token.Email, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("login token: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume login token: %w", err)
	}
	return token, nil
}
