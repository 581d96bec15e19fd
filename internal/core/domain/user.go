package domain

import "errors"

var ErrAuthenticationFailed = errors.New("authentication failed")
var ErrAccountExists = errors.New("account already exists")
var ErrAccountCreation = errors.New("account creation failed")
var ErrProfileNotFound = errors.New("profile not found")
var ErrTooManyAttempts = errors.New("too many login attempts")

// UserIdentity models an account held by the identity provider.
type UserIdentity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Profile is the per-user document stored in the profile store.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the authenticated context of one user. The zero value is
// anonymous.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}
