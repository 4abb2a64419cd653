package auth

import (
	"context"

	"github.com/mmynk/superlists/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (magic
// links, passkeys, OAuth) without changing the handler code.
type Authenticator interface {
	// SendLoginEmail issues a credential for email and delivers it.
	// baseURL is the externally visible site root used to build links.
	SendLoginEmail(ctx context.Context, email, baseURL string) error

	// Authenticate redeems a credential and returns the user it belongs to,
	// creating the account on first login.
	Authenticate(ctx context.Context, credential string) (*models.User, error)
}
