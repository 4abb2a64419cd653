package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/goware/emailx"
	"golang.org/x/crypto/blake2b"

	"github.com/mmynk/superlists/internal/mail"
	"github.com/mmynk/superlists/internal/models"
)

// Login email contents.
const (
	LoginEmailSubject = "Your login link for Superlists"
	loginEmailIntro   = "Use this link to log in:"
	loginPath         = "/accounts/login"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidLoginLink = errors.New("invalid or expired login link")
)

// UserStorage defines the interface for user and token persistence.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateToken(ctx context.Context, token *models.LoginToken) error
	ConsumeToken(ctx context.Context, hash string) (*models.LoginToken, error)
}

// MagicLinkAuthenticator implements passwordless login: a single-use link
// is emailed to the user, and following it logs them in.
type MagicLinkAuthenticator struct {
	storage  UserStorage
	mailer   mail.Mailer
	tokenTTL time.Duration
	now      func() time.Time
}

// NewMagicLinkAuthenticator creates an authenticator whose links expire after tokenTTL.
func NewMagicLinkAuthenticator(storage UserStorage, mailer mail.Mailer, tokenTTL time.Duration) *MagicLinkAuthenticator {
	return &MagicLinkAuthenticator{
		storage:  storage,
		mailer:   mailer,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// HashToken returns the at-rest form of a login uid.
func HashToken(uid string) string {
	sum := blake2b.Sum256([]byte(uid))
	return hex.EncodeToString(sum[:])
}

// LoginURL builds the link that redeems uid.
func LoginURL(baseURL, uid string) string {
	return baseURL + loginPath + "?" + url.Values{"token": {uid}}.Encode()
}

// SendLoginEmail stores a new token for email and mails the login link.
func (a *MagicLinkAuthenticator) SendLoginEmail(ctx context.Context, email, baseURL string) error {
	email = emailx.Normalize(email)
	if err := emailx.ValidateFast(email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}

	uid := uuid.NewString()
	token := &models.LoginToken{
		Hash:      HashToken(uid),
		Email:     email,
		CreatedAt: a.now().Unix(),
	}
	if err := a.storage.CreateToken(ctx, token); err != nil {
		return fmt.Errorf("failed to store login token: %w", err)
	}

	msg := mail.Message{
		To:      email,
		Subject: LoginEmailSubject,
		Body:    fmt.Sprintf("%s\n\n%s", loginEmailIntro, LoginURL(baseURL, uid)),
	}
	if err := a.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send login email: %w", err)
	}
	return nil
}

// Authenticate redeems uid. The token is consumed even when it has expired.
func (a *MagicLinkAuthenticator) Authenticate(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, ErrInvalidLoginLink
	}

	token, err := a.storage.ConsumeToken(ctx, HashToken(uid))
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidLoginLink
	}
	if err != nil {
		return nil, err
	}
	if token.Expired(a.now(), a.tokenTTL) {
		return nil, ErrInvalidLoginLink
	}

	user, err := a.storage.GetUserByEmail(ctx, token.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	user = models.NewUser(token.Email)
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
