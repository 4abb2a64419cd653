package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/superlists/internal/models"
)

// CreateToken persists a new login token.
func (s *SQLiteStore) CreateToken(ctx context.Context, token *models.LoginToken) error {
	if token.CreatedAt == 0 {
		token.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO login_tokens (hash, email, created_at) VALUES (?, ?, ?)",
		token.Hash, token.Email, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login token: %w", err)
	}

	return nil
}

// ConsumeToken deletes the token and returns it, so it can be redeemed once.
func (s *SQLiteStore) ConsumeToken(ctx context.Context, hash string) (*models.LoginToken, error) {
	token := &models.LoginToken{}
	err := s.db.QueryRowContext(ctx,
		"DELETE FROM login_tokens WHERE hash = ? RETURNING hash, email, created_at",
		hash,
	).Scan(&token.Hash, &token.Email, &token.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("login token: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume login token: %w", err)
	}

	return token, nil
}
