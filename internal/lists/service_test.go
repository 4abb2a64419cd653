package lists

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/internal/storage/sqlite"
)

func setupService(t *testing.T) (*Service, *sqlite.SQLiteStore) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "lists.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store), store
}

func createUser(t *testing.T, store *sqlite.SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email)
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func itemTexts(items []models.Item) []string {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return texts
}

func TestCreateItem(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "")
	require.NoError(t, err)

	t.Run("valid text is persisted", func(t *testing.T) {
		id, err := svc.CreateItem(ctx, "A new item for an existing list", listID)
		require.NoError(t, err)
		assert.NotZero(t, id)

		items, err := svc.ListItems(ctx, listID)
		require.NoError(t, err)
		assert.Contains(t, itemTexts(items), "A new item for an existing list")
	})

	t.Run("duplicate text fails and persists nothing", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, "textey", listID)
		require.NoError(t, err)

		_, err = svc.CreateItem(ctx, "textey", listID)
		assert.ErrorIs(t, err, models.ErrDuplicateItem)
		assert.True(t, models.IsValidation(err))

		items, err := svc.ListItems(ctx, listID)
		require.NoError(t, err)
		count := 0
		for _, item := range items {
			if item.Text == "textey" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("empty text fails and leaves items unchanged", func(t *testing.T) {
		before, err := svc.ListItems(ctx, listID)
		require.NoError(t, err)

		_, err = svc.CreateItem(ctx, "", listID)
		assert.ErrorIs(t, err, models.ErrEmptyItem)

		var ve *models.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, listID, ve.ListID)

		after, err := svc.ListItems(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("whitespace-only text is accepted", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, "   ", listID)
		assert.NoError(t, err)
	})

	t.Run("missing list is NotFound", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, "anything", "nonexistent-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

// racingStore loses every insert to a concurrent writer of the same text.
type racingStore struct {
	Store
}

func (racingStore) ItemExists(context.Context, string, string) (bool, error) {
	return false, nil
}

func (racingStore) CreateItem(context.Context, *models.Item) error {
	return fmt.Errorf("insert item: %w", models.ErrDuplicateItem)
}

func TestCreateItemLosesInsertRace(t *testing.T) {
	_, store := setupService(t)
	ctx := context.Background()

	listID, err := NewService(store).CreateListWithFirstItem(ctx, "first", "")
	require.NoError(t, err)

	svc := NewService(racingStore{Store: store})
	_, err = svc.CreateItem(ctx, "second", listID)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, listID, verr.ListID)
	assert.Equal(t, "second", verr.Text)
	assert.ErrorIs(t, err, models.ErrDuplicateItem)
}

func TestSameTextInDifferentLists(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	l1, err := svc.CreateList(ctx, "")
	require.NoError(t, err)
	l2, err := svc.CreateList(ctx, "")
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, "x", l1)
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, "x", l2)
	require.NoError(t, err)
}

func TestListItemsOrder(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "")
	require.NoError(t, err)

	for _, text := range []string{"i1", "item 2", "3"} {
		_, err := svc.CreateItem(ctx, text, listID)
		require.NoError(t, err)
	}

	items, err := svc.ListItems(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "item 2", "3"}, itemTexts(items))
}

func TestListItemsMissingList(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.ListItems(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestValidateItem(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "")
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, "bla", listID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		text    string
		listID  string
		wantErr error
	}{
		{name: "empty", text: "", listID: listID, wantErr: models.ErrEmptyItem},
		{name: "duplicate", text: "bla", listID: listID, wantErr: models.ErrDuplicateItem},
		{name: "new text", text: "blu", listID: listID},
		{name: "no list yet", text: "bla", listID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.ValidateItem(ctx, tt.text, tt.listID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.text, item.Text)
			assert.Zero(t, item.ID, "validated items are not persisted")
		})
	}
}

func TestCreateListWithFirstItem(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	t.Run("creates list named after the item", func(t *testing.T) {
		listID, err := svc.CreateListWithFirstItem(ctx, "A new list item", "")
		require.NoError(t, err)

		name, err := svc.ListName(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, "A new list item", name)
	})

	t.Run("empty text leaves no orphan list", func(t *testing.T) {
		before, err := svc.CountLists(ctx)
		require.NoError(t, err)

		_, err = svc.CreateListWithFirstItem(ctx, "", "")
		assert.ErrorIs(t, err, models.ErrEmptyItem)

		after, err := svc.CountLists(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("owner is saved", func(t *testing.T) {
		user := createUser(t, store, "a@b.com")

		listID, err := svc.CreateListWithFirstItem(ctx, "new item", user.ID)
		require.NoError(t, err)

		list, err := svc.GetList(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, list.OwnerID)
	})

	t.Run("unknown owner leaves no list", func(t *testing.T) {
		before, err := svc.CountLists(ctx)
		require.NoError(t, err)

		_, err = svc.CreateListWithFirstItem(ctx, "item", "no-such-user")
		assert.ErrorIs(t, err, models.ErrUnknownOwner)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.False(t, models.IsValidation(err))

		after, err := svc.CountLists(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestListName(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "")
	require.NoError(t, err)

	_, err = svc.ListName(ctx, listID)
	assert.ErrorIs(t, err, models.ErrEmptyList)

	_, err = svc.CreateItem(ctx, "first item", listID)
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, "second item", listID)
	require.NoError(t, err)

	name, err := svc.ListName(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, "first item", name)
}

func TestDeleteList(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	listID, err := svc.CreateListWithFirstItem(ctx, "to delete", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, listID))

	_, err = svc.GetList(ctx, listID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteList(ctx, listID), models.ErrNotFound)
}

func TestShareList(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	owner := createUser(t, store, "edith@example.com")
	friend := createUser(t, store, "friend@example.com")

	listID, err := svc.CreateListWithFirstItem(ctx, "Get help", owner.ID)
	require.NoError(t, err)

	t.Run("sharing twice keeps one membership", func(t *testing.T) {
		require.NoError(t, svc.ShareList(ctx, listID, "friend@example.com"))
		require.NoError(t, svc.ShareList(ctx, listID, "friend@example.com"))

		list, err := svc.GetList(ctx, listID)
		require.NoError(t, err)
		require.Len(t, list.SharedWith, 1)
		assert.Equal(t, friend.ID, list.SharedWith[0].ID)
	})

	t.Run("email is normalized", func(t *testing.T) {
		require.NoError(t, svc.ShareList(ctx, listID, "  Friend@Example.com "))

		list, err := svc.GetList(ctx, listID)
		require.NoError(t, err)
		assert.Len(t, list.SharedWith, 1)
	})

	t.Run("unknown user leaves set unchanged", func(t *testing.T) {
		err := svc.ShareList(ctx, listID, "nobody@example.com")
		assert.ErrorIs(t, err, models.ErrUnknownUser)

		list, err := svc.GetList(ctx, listID)
		require.NoError(t, err)
		assert.Len(t, list.SharedWith, 1)
	})

	t.Run("missing list is NotFound", func(t *testing.T) {
		err := svc.ShareList(ctx, "nonexistent-id", "friend@example.com")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("shared list shows up in the friend's lists", func(t *testing.T) {
		ul, err := svc.UserLists(ctx, "friend@example.com")
		require.NoError(t, err)
		assert.Empty(t, ul.Owned)
		require.Len(t, ul.Shared, 1)
		assert.Equal(t, listID, ul.Shared[0].ID)

		name, err := ul.Shared[0].Name()
		require.NoError(t, err)
		assert.Equal(t, "Get help", name)
	})
}

func TestUserLists(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	createUser(t, store, "wrong@owner.com")
	user := createUser(t, store, "a@b.com")

	first, err := svc.CreateListWithFirstItem(ctx, "first", user.ID)
	require.NoError(t, err)
	second, err := svc.CreateListWithFirstItem(ctx, "second", user.ID)
	require.NoError(t, err)
	_, err = svc.CreateListWithFirstItem(ctx, "anonymous", "")
	require.NoError(t, err)

	ul, err := svc.UserLists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, ul.User.ID)
	require.Len(t, ul.Owned, 2)
	assert.ElementsMatch(t, []string{first, second}, []string{ul.Owned[0].ID, ul.Owned[1].ID})

	_, err = svc.UserLists(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrUnknownUser)
}
