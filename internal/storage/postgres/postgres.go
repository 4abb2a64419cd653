// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to the database at url and runs migrations.
func New(ctx context.Context, url string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func prepareList(list *models.List) {
	if list.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		list.ID = id.String()
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

// CreateList persists a new empty list.
func (s *PostgresStore) CreateList(ctx context.Context, list *models.List) error {
	prepareList(list)

	_, err := s.pool.Exec(ctx,
		"INSERT INTO lists (id, owner_id, created_at) VALUES ($1, $2, $3)",
		list.ID, nullable(list.OwnerID), list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// CreateListWithItem persists a list and its first item atomically.
func (s *PostgresStore) CreateListWithItem(ctx context.Context, list *models.List, item *models.Item) error {
	prepareList(list)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO lists (id, owner_id, created_at) VALUES ($1, $2, $3)",
		list.ID, nullable(list.OwnerID), list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	item.ListID = list.ID
	if err := insertItem(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	list.Items = []models.Item{*item}
	return nil
}

// GetList retrieves a list with its items and shared-with users.
func (s *PostgresStore) GetList(ctx context.Context, listID string) (*models.List, error) {
	list := &models.List{}
	var owner sql.NullString
	err := s.pool.QueryRow(ctx,
		"SELECT id, owner_id, created_at FROM lists WHERE id = $1",
		listID,
	).Scan(&list.ID, &owner, &list.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := s.pool.Query(ctx,
		`SELECT u.id, u.email, u.created_at
		 FROM list_shares ls JOIN users u ON u.id = ls.user_id
		 WHERE ls.list_id = $1
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
func (s *PostgresStore) DeleteList(ctx context.Context, listID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM lists WHERE id = $1", listID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	return nil
}

// CountLists returns the number of lists.
func (s *PostgresStore) CountLists(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM lists").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return n, nil
}

// ListIDsByOwner returns the IDs of lists owned by ownerID.
func (s *PostgresStore) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return s.queryIDs(ctx,
		"SELECT id FROM lists WHERE owner_id = $1 ORDER BY created_at, id",
		ownerID,
	)
}

// ListIDsSharedWith returns the IDs of lists shared with userID.
func (s *PostgresStore) ListIDsSharedWith(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT l.id FROM lists l JOIN list_shares ls ON ls.list_id = l.id
		 WHERE ls.user_id = $1 ORDER BY l.created_at, l.id`,
		userID,
	)
}

func (s *PostgresStore) queryIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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
func (s *PostgresStore) AddShare(ctx context.Context, listID, userID string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO list_shares (list_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add share: %w", err)
	}
	return nil
}
