package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/superlists/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CreateItem persists a new item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	return insertItem(ctx, s.db, item)
}

func insertItem(ctx context.Context, ex execer, item *models.Item) error {
	res, err := ex.ExecContext(ctx,
		"INSERT INTO items (list_id, text) VALUES (?, ?)",
		item.ListID, item.Text,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("item %q in list %s: %w", item.Text, item.ListID, models.ErrDuplicateItem)
	}
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read item id: %w", err)
	}
	return nil
}

// ListItems returns the list's items ordered by ID.
func (s *SQLiteStore) ListItems(ctx context.Context, listID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, list_id, text FROM items WHERE list_id = ? ORDER BY id",
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
func (s *SQLiteStore) ItemExists(ctx context.Context, listID, text string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM items WHERE list_id = ? AND text = ?)",
		listID, text,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item: %w", err)
	}
	return exists == 1, nil
}
