// Package lists implements list and item management: validation, creation
// with all-or-nothing semantics, and sharing by email.
//
// The service returns typed errors from the models package and never logs;
// callers decide what to show.
package lists

import (
	"context"
	"errors"
	"fmt"

	"github.com/goware/emailx"

	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/internal/storage"
)

// Store is the subset of storage.Store the service needs.
type Store interface {
	storage.ListStore
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service manages lists, items and sharing on top of a Store.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// UserLists is the "my lists" view of a user.
type UserLists struct {
	User   *models.User
	Owned  []*models.List
	Shared []*models.List
}

// CreateList creates an empty list. ownerID is optional.
func (s *Service) CreateList(ctx context.Context, ownerID string) (string, error) {
	if err := s.checkOwner(ctx, ownerID); err != nil {
		return "", err
	}

	list := &models.List{OwnerID: ownerID}
	if err := s.store.CreateList(ctx, list); err != nil {
		return "", err
	}
	return list.ID, nil
}

// DeleteList removes a list and all of its items.
// Deleting a missing list fails with models.ErrNotFound.
func (s *Service) DeleteList(ctx context.Context, listID string) error {
	return s.store.DeleteList(ctx, listID)
}

// GetList returns the list with its items and shared-with users.
func (s *Service) GetList(ctx context.Context, listID string) (*models.List, error) {
	return s.store.GetList(ctx, listID)
}

// ListItems returns the list's items in creation order.
func (s *Service) ListItems(ctx context.Context, listID string) ([]models.Item, error) {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, listID)
}

// ListName returns the text of the list's first item.
// Returns models.ErrEmptyList when the list has no items.
func (s *Service) ListName(ctx context.Context, listID string) (string, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return "", err
	}
	return list.Name()
}

// CountLists returns the number of lists.
func (s *Service) CountLists(ctx context.Context) (int, error) {
	return s.store.CountLists(ctx)
}

// ValidateItem checks text against the list's items and returns an unsaved
// item. Only the exact empty string counts as empty.
func (s *Service) ValidateItem(ctx context.Context, text, listID string) (*models.Item, error) {
	if text == "" {
		return nil, &models.ValidationError{ListID: listID, Text: text, Err: models.ErrEmptyItem}
	}

	if listID != "" {
		exists, err := s.store.ItemExists(ctx, listID, text)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &models.ValidationError{ListID: listID, Text: text, Err: models.ErrDuplicateItem}
		}
	}

	return &models.Item{ListID: listID, Text: text}, nil
}

// CreateItem validates text and appends it to an existing list.
// Nothing is persisted when validation fails.
func (s *Service) CreateItem(ctx context.Context, text, listID string) (int64, error) {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return 0, err
	}

	item, err := s.ValidateItem(ctx, text, listID)
	if err != nil {
		return 0, err
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		// A concurrent insert of the same text loses on the unique index.
		if errors.Is(err, models.ErrDuplicateItem) {
			return 0, &models.ValidationError{ListID: listID, Text: text, Err: models.ErrDuplicateItem}
		}
		return 0, err
	}
	return item.ID, nil
}

// CreateListWithFirstItem creates a list together with its first item.
// The list and item are written in one transaction; on any failure no list
// is left behind.
func (s *Service) CreateListWithFirstItem(ctx context.Context, text, ownerID string) (string, error) {
	item, err := s.ValidateItem(ctx, text, "")
	if err != nil {
		return "", err
	}

	if err := s.checkOwner(ctx, ownerID); err != nil {
		return "", err
	}

	list := &models.List{OwnerID: ownerID}
	if err := s.store.CreateListWithItem(ctx, list, item); err != nil {
		return "", err
	}
	return list.ID, nil
}

// ShareList adds the user with email to the list's shared-with set.
// Sharing with a user who already has access is a no-op. Any caller may
// share any list.
func (s *Service) ShareList(ctx context.Context, listID, email string) error {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(ctx, emailx.Normalize(email))
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("share list %s with %s: %w", listID, email, models.ErrUnknownUser)
	}
	if err != nil {
		return err
	}

	return s.store.AddShare(ctx, listID, user.ID)
}

// UserLists returns the lists owned by and shared with the user with email.
func (s *Service) UserLists(ctx context.Context, email string) (*UserLists, error) {
	user, err := s.store.GetUserByEmail(ctx, emailx.Normalize(email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lists for %s: %w", email, models.ErrUnknownUser)
	}
	if err != nil {
		return nil, err
	}

	ownedIDs, err := s.store.ListIDsByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	sharedIDs, err := s.store.ListIDsSharedWith(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	result := &UserLists{User: user}
	if result.Owned, err = s.loadLists(ctx, ownedIDs); err != nil {
		return nil, err
	}
	if result.Shared, err = s.loadLists(ctx, sharedIDs); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) loadLists(ctx context.Context, ids []string) ([]*models.List, error) {
	lists := make([]*models.List, 0, len(ids))
	for _, id := range ids {
		list, err := s.store.GetList(ctx, id)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// checkOwner verifies that a non-empty ownerID refers to an existing user.
// A missing user matches both models.ErrUnknownOwner and models.ErrNotFound.
func (s *Service) checkOwner(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	_, err := s.store.GetUserByID(ctx, ownerID)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("owner %s: %w: %w", ownerID, models.ErrUnknownOwner, err)
	}
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	return nil
}
