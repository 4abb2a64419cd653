package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/mmynk/superlists/internal/models"
)

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// CreateItem persists a new item.
func (s *PostgresStore) CreateItem(ctx context.Context, item *models.Item) error {
	return insertItem(ctx, s.pool, item)
}

func insertItem(ctx context.Context, q rowQuerier, item *models.Item) error {
	err := q.QueryRow(ctx,
		"INSERT INTO items (list_id, text) VALUES ($1, $2) RETURNING id",
		item.ListID, item.Text,
	).Scan(&item.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("item %q in list %s: %w", item.Text, item.ListID, models.ErrDuplicateItem)
	}
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// ListItems returns the list's items ordered by ID.
func (s *PostgresStore) ListItems(ctx context.Context, listID string) ([]models.Item, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, list_id, text FROM items WHERE list_id = $1 ORDER BY id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.ListID, &item.Text); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// ItemExists reports whether the list already holds text.
func (s *PostgresStore) ItemExists(ctx context.Context, listID, text string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM items WHERE list_id = $1 AND text = $2)",
		listID, text,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item: %w", err)
	}
	return exists, nil
}
