package ports

import (
	"context"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

// ProfileStore is the document store holding per-user display data, keyed
// by the identity provider's user id.
type ProfileStore interface {
	// Get returns the profile document for the user, or
	// domain.ErrProfileNotFound when none exists.
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, userID string, profile domain.Profile) error
}
