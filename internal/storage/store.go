// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/superlists/internal/models"
)

// ListStore persists lists, their items and their sharing relation.
type ListStore interface {
	// CreateList persists an empty list.
	// The list.ID and list.CreatedAt fields are populated by the store.
	CreateList(ctx context.Context, list *models.List) error

	// CreateListWithItem persists a list and its first item in a single
	// transaction. Either both rows are written or neither is.
	CreateListWithItem(ctx context.Context, list *models.List, item *models.Item) error

	// GetList retrieves a list by ID with its items and shared-with users.
	// Returns an error wrapping models.ErrNotFound if absent.
	GetList(ctx context.Context, listID string) (*models.List, error)

	// DeleteList removes a list, its items and its shares.
	// Returns an error wrapping models.ErrNotFound if absent.
	DeleteList(ctx context.Context, listID string) error

	// CountLists returns the number of persisted lists.
	CountLists(ctx context.Context) (int, error)

	// ListIDsByOwner returns the IDs of lists owned by a user, oldest first.
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)

	// ListIDsSharedWith returns the IDs of lists shared with a user, oldest first.
	ListIDsSharedWith(ctx context.Context, userID string) ([]string, error)

	// CreateItem persists an item. item.ID is populated by the store.
	// Returns an error wrapping models.ErrDuplicateItem when the list
	// already holds an item with the same text.
	CreateItem(ctx context.Context, item *models.Item) error

	// ListItems returns a list's items in ascending ID order.
	ListItems(ctx context.Context, listID string) ([]models.Item, error)

	// ItemExists reports whether the list holds an item with exactly text.
	ItemExists(ctx context.Context, listID, text string) (bool, error)

	// AddShare adds a user to a list's shared-with set. Idempotent.
	AddShare(ctx context.Context, listID, userID string) error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns an error wrapping models.ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns an error wrapping models.ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenStore persists magic-link login tokens.
type TokenStore interface {
	// CreateToken stores a new login token.
	CreateToken(ctx context.Context, token *models.LoginToken) error

	// ConsumeToken deletes and returns the token with the given hash.
	// Returns an error wrapping models.ErrNotFound if absent.
	ConsumeToken(ctx context.Context, hash string) (*models.LoginToken, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	ListStore
	UserStore
	TokenStore

	// Close releases any resources held by the store.
	Close() error
}
