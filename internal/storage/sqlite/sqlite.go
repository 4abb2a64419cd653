// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	sqlitedriver "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection enforces foreign keys.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps transactions serialized.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// newListID returns a time-ordered list ID.
func newListID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func prepareList(list *models.List) {
	if list.ID == "" {
		list.ID = newListID()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	var se *sqlitedriver.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// CreateList persists a new empty list.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	prepareList(list)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (id, owner_id, created_at) VALUES (?, ?, ?)",
		list.ID, nullable(list.OwnerID), list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// CreateListWithItem persists a list and its first item atomically.
func (s *SQLiteStore) CreateListWithItem(ctx context.Context, list *models.List, item *models.Item) error {
	prepareList(list)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO lists (id, owner_id, created_at) VALUES (?, ?, ?)",
		list.ID, nullable(list.OwnerID), list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	item.ListID = list.ID
	if err := insertItem(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	list.Items = []models.Item{*item}
	return nil
}

// GetList retrieves a list by ID, including its items and shared-with users.
func (s *SQLiteStore) GetList(ctx context.Context, listID string) (*models.List, error) {
	list := &models.List{}
	var owner sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, created_at FROM lists WHERE id = ?",
		listID,
	).Scan(&list.ID, &owner, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	list.OwnerID = owner.String

	list.Items, err = s.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.created_at
		 FROM list_shares ls JOIN users u ON u.id = ls.user_id
		 WHERE ls.list_id = ?
		 ORDER BY u.email`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		list.SharedWith = append(list.SharedWith, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return list, nil
}

// DeleteList removes a list; items and shares go with it by cascade.
func (s *SQLiteStore) DeleteList(ctx context.Context, listID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", listID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	return nil
}

// CountLists returns the number of lists.
func (s *SQLiteStore) CountLists(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lists").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return n, nil
}

// ListIDsByOwner returns the IDs of lists owned by ownerID.
func (s *SQLiteStore) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return s.queryIDs(ctx,
		"SELECT id FROM lists WHERE owner_id = ? ORDER BY created_at, id",
		ownerID,
	)
}

// ListIDsSharedWith returns the IDs of lists shared with userID.
func (s *SQLiteStore) ListIDsSharedWith(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT l.id FROM lists l JOIN list_shares ls ON ls.list_id = l.id
		 WHERE ls.user_id = ? ORDER BY l.created_at, l.id`,
		userID,
	)
}

func (s *SQLiteStore) queryIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return ids, nil
}

// AddShare adds userID to the list's shared-with set.
func (s *SQLiteStore) AddShare(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO list_shares (list_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add share: %w", err)
	}
	return nil
}
