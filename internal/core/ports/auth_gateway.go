package ports

import (
	"context"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

// AuthGateway is the external identity provider. It owns credential
// storage and verification; this application never sees a password hash
// from it.
type AuthGateway interface {
	// CreateAccount registers a new identity. Returns
	// domain.ErrAccountExists when the email is already taken.
	CreateAccount(ctx context.Context, email, password, displayName string) (*domain.UserIdentity, error)
	// VerifyCredentials checks an email/password pair. Any rejection is
	// domain.ErrAuthenticationFailed; callers must not learn which field
	// was wrong.
	VerifyCredentials(ctx context.Context, email, password string) (*domain.UserIdentity, error)
}
