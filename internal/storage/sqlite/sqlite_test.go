package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/superlists/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateList generates ID and CreatedAt", func(t *testing.T) {
		list := &models.List{}
		require.NoError(t, store.CreateList(ctx, list))

		assert.NotEmpty(t, list.ID)
		assert.NotZero(t, list.CreatedAt)

		got, err := store.GetList(ctx, list.ID)
		require.NoError(t, err)
		assert.Empty(t, got.OwnerID)
		assert.Empty(t, got.Items)
	})

	t.Run("CreateList with owner", func(t *testing.T) {
		user := models.NewUser("owner@example.com")
		require.NoError(t, store.CreateUser(ctx, user))

		list := &models.List{OwnerID: user.ID}
		require.NoError(t, store.CreateList(ctx, list))

		got, err := store.GetList(ctx, list.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.OwnerID)

		ids, err := store.ListIDsByOwner(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{list.ID}, ids)
	})

	t.Run("CreateList rejects unknown owner", func(t *testing.T) {
		err := store.CreateList(ctx, &models.List{OwnerID: "no-such-user"})
		assert.Error(t, err)
	})

	t.Run("GetList returns ErrNotFound for nonexistent list", func(t *testing.T) {
		_, err := store.GetList(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("items come back in ID order", func(t *testing.T) {
		list := &models.List{}
		require.NoError(t, store.CreateList(ctx, list))

		for _, text := range []string{"i1", "item 2", "3"} {
			require.NoError(t, store.CreateItem(ctx, &models.Item{ListID: list.ID, Text: text}))
		}

		items, err := store.ListItems(ctx, list.ID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "i1", items[0].Text)
		assert.Equal(t, "item 2", items[1].Text)
		assert.Equal(t, "3", items[2].Text)
		assert.Less(t, items[0].ID, items[1].ID)
		assert.Less(t, items[1].ID, items[2].ID)
	})

	t.Run("ListItems of empty list is empty, not nil", func(t *testing.T) {
		list := &models.List{}
		require.NoError(t, store.CreateList(ctx, list))

		items, err := store.ListItems(ctx, list.ID)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("duplicate item maps to ErrDuplicateItem", func(t *testing.T) {
		list := &models.List{}
		require.NoError(t, store.CreateList(ctx, list))
		require.NoError(t, store.CreateItem(ctx, &models.Item{ListID: list.ID, Text: "bla"}))

		err := store.CreateItem(ctx, &models.Item{ListID: list.ID, Text: "bla"})
		assert.ErrorIs(t, err, models.ErrDuplicateItem)

		exists, err := store.ItemExists(ctx, list.ID, "bla")
		require.NoError(t, err)
		assert.True(t, exists)

		items, err := store.ListItems(ctx, list.ID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("same text allowed in different lists", func(t *testing.T) {
		list1 := &models.List{}
		list2 := &models.List{}
		require.NoError(t, store.CreateList(ctx, list1))
		require.NoError(t, store.CreateList(ctx, list2))

		require.NoError(t, store.CreateItem(ctx, &models.Item{ListID: list1.ID, Text: "bla"}))
		require.NoError(t, store.CreateItem(ctx, &models.Item{ListID: list2.ID, Text: "bla"}))
	})

	t.Run("CreateListWithItem writes both rows", func(t *testing.T) {
		list := &models.List{}
		item := &models.Item{Text: "first"}
		require.NoError(t, store.CreateListWithItem(ctx, list, item))

		assert.Equal(t, list.ID, item.ListID)
		assert.NotZero(t, item.ID)

		got, err := store.GetList(ctx, list.ID)
		require.NoError(t, err)
		name, err := got.Name()
		require.NoError(t, err)
		assert.Equal(t, "first", name)
	})

	t.Run("CreateListWithItem rolls back the list when the item fails", func(t *testing.T) {
		before, err := store.CountLists(ctx)
		require.NoError(t, err)

		// The list insert succeeds; the item insert trips the CHECK constraint.
		err = store.CreateListWithItem(ctx, &models.List{}, &models.Item{Text: ""})
		assert.Error(t, err)

		after, err := store.CountLists(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("DeleteList cascades to items and shares", func(t *testing.T) {
		friend := models.NewUser("cascade-friend@example.com")
		require.NoError(t, store.CreateUser(ctx, friend))

		list := &models.List{}
		require.NoError(t, store.CreateListWithItem(ctx, list, &models.Item{Text: "doomed"}))
		require.NoError(t, store.AddShare(ctx, list.ID, friend.ID))

		require.NoError(t, store.DeleteList(ctx, list.ID))

		_, err := store.GetList(ctx, list.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		items, err := store.ListItems(ctx, list.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		shared, err := store.ListIDsSharedWith(ctx, friend.ID)
		require.NoError(t, err)
		assert.Empty(t, shared)
	})

	t.Run("DeleteList of missing list returns ErrNotFound", func(t *testing.T) {
		err := store.DeleteList(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("AddShare is idempotent", func(t *testing.T) {
		friend := models.NewUser("friend@example.com")
		require.NoError(t, store.CreateUser(ctx, friend))

		list := &models.List{}
		require.NoError(t, store.CreateList(ctx, list))

		require.NoError(t, store.AddShare(ctx, list.ID, friend.ID))
		require.NoError(t, store.AddShare(ctx, list.ID, friend.ID))

		got, err := store.GetList(ctx, list.ID)
		require.NoError(t, err)
		require.Len(t, got.SharedWith, 1)
		assert.Equal(t, "friend@example.com", got.SharedWith[0].Email)

		ids, err := store.ListIDsSharedWith(ctx, friend.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{list.ID}, ids)
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("a@b.com")
	require.NoError(t, store.CreateUser(ctx, user))

	byEmail, err := store.GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Error(t, store.CreateUser(ctx, models.NewUser("a@b.com")), "email must be unique")
}

func TestSQLiteStoreTokens(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tok := &models.LoginToken{Hash: "abc", Email: "edith@example.com"}
	require.NoError(t, store.CreateToken(ctx, tok))
	assert.InDelta(t, time.Now().Unix(), tok.CreatedAt, 5)

	got, err := store.ConsumeToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "edith@example.com", got.Email)

	_, err = store.ConsumeToken(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrNotFound, "tokens are single use")
}
