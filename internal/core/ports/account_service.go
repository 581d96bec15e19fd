package ports

import (
	"context"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

// AccountService defines the registration and login use cases.
type AccountService interface {
	// Register validates the sign-up form and creates the account with the
	// identity provider. Validation failures return *validation.Error; no
	// external call happens unless validation passed.
	Register(ctx context.Context, req domain.RegistrationRequest) (*domain.UserIdentity, error)
	// Login validates the sign-in form, verifies credentials and returns
	// the established session. Provider rejections surface as
	// domain.ErrAuthenticationFailed.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error)
}

// LoginLimiter throttles repeated failed sign-in attempts per email.
type LoginLimiter interface {
	// Allow reports whether another attempt for this email may proceed.
	Allow(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one rejected attempt.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, email string) error
}
