package auth

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/superlists/internal/mail"
	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/internal/storage/sqlite"
)

const testBaseURL = "http://localhost:8080"

var linkPattern = regexp.MustCompile(`http://.+/.+$`)

func setupAuthenticator(t *testing.T) (*MagicLinkAuthenticator, *mail.LogMailer, *sqlite.SQLiteStore) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mailer := mail.NewLogMailer(nil)
	return NewMagicLinkAuthenticator(store, mailer, time.Hour), mailer, store
}

// uidFromEmail extracts the token uid from the last login email.
func uidFromEmail(t *testing.T, mailer *mail.LogMailer) string {
	t.Helper()
	msg, ok := mailer.Last()
	require.True(t, ok, "expected a login email")

	link := linkPattern.FindString(msg.Body)
	require.NotEmpty(t, link, "could not find url in email body:\n%s", msg.Body)
	_, uid, found := strings.Cut(link, "token=")
	require.True(t, found)
	return uid
}

func TestSendLoginEmail(t *testing.T) {
	a, mailer, _ := setupAuthenticator(t)

	require.NoError(t, a.SendLoginEmail(context.Background(), "Edith@Example.com", testBaseURL))

	msg, ok := mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "edith@example.com", msg.To)
	assert.Equal(t, LoginEmailSubject, msg.Subject)
	assert.Contains(t, msg.Body, "Use this link to log in")
	assert.Contains(t, msg.Body, testBaseURL+"/accounts/login?token=")
}

func TestSendLoginEmailRejectsBadAddress(t *testing.T) {
	a, mailer, _ := setupAuthenticator(t)

	err := a.SendLoginEmail(context.Background(), "not-an-email", testBaseURL)
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.Empty(t, mailer.Outbox())
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user on first login", func(t *testing.T) {
		a, mailer, store := setupAuthenticator(t)
		require.NoError(t, a.SendLoginEmail(ctx, "edith@example.com", testBaseURL))

		user, err := a.Authenticate(ctx, uidFromEmail(t, mailer))
		require.NoError(t, err)
		assert.Equal(t, "edith@example.com", user.Email)

		stored, err := store.GetUserByEmail(ctx, "edith@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("returns existing user", func(t *testing.T) {
		a, mailer, store := setupAuthenticator(t)
		existing := models.NewUser("edith@example.com")
		require.NoError(t, store.CreateUser(ctx, existing))

		require.NoError(t, a.SendLoginEmail(ctx, "edith@example.com", testBaseURL))
		user, err := a.Authenticate(ctx, uidFromEmail(t, mailer))
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
	})

	t.Run("links are single use", func(t *testing.T) {
		a, mailer, _ := setupAuthenticator(t)
		require.NoError(t, a.SendLoginEmail(ctx, "edith@example.com", testBaseURL))
		uid := uidFromEmail(t, mailer)

		_, err := a.Authenticate(ctx, uid)
		require.NoError(t, err)
		_, err = a.Authenticate(ctx, uid)
		assert.ErrorIs(t, err, ErrInvalidLoginLink)
	})

	t.Run("expired links are rejected", func(t *testing.T) {
		a, mailer, _ := setupAuthenticator(t)
		require.NoError(t, a.SendLoginEmail(ctx, "edith@example.com", testBaseURL))
		uid := uidFromEmail(t, mailer)

		a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := a.Authenticate(ctx, uid)
		assert.ErrorIs(t, err, ErrInvalidLoginLink)
	})

	t.Run("unknown and empty uids are rejected", func(t *testing.T) {
		a, _, _ := setupAuthenticator(t)
		_, err := a.Authenticate(ctx, "made-up")
		assert.ErrorIs(t, err, ErrInvalidLoginLink)
		_, err = a.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidLoginLink)
	})
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "a@b.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
