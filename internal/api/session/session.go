// Package session manages the cookie-backed user session. A session is
// created on successful login, read on every page request to pick the
// screen set, and destroyed on logout.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

const (
	cookieName     = "kharcha_session"
	keyUserID      = "user_id"
	keyEmail       = "email"
	keyDisplayName = "display_name"
)

// Manager reads and writes the session cookie.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager builds the cookie store. Secure should be true behind TLS in
// production.
func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// Current returns the session for the request. A missing, expired or
// malformed cookie yields the anonymous zero value.
func (m *Manager) Current(c echo.Context) domain.Session {
	sess, err := m.store.Get(c.Request(), cookieName)
	if err != nil {
		return domain.Session{}
	}

	userID, _ := sess.Values[keyUserID].(string)
	if userID == "" {
		return domain.Session{}
	}

	email, _ := sess.Values[keyEmail].(string)
	displayName, _ := sess.Values[keyDisplayName].(string)
	return domain.Session{UserID: userID, Email: email, DisplayName: displayName}
}

// Establish writes the authenticated identity into the cookie.
func (m *Manager) Establish(c echo.Context, s domain.Session) error {
	sess, _ := m.store.Get(c.Request(), cookieName)
	sess.Values[keyUserID] = s.UserID
	sess.Values[keyEmail] = s.Email
	sess.Values[keyDisplayName] = s.DisplayName
	if err := sess.Save(c.Request(), c.Response().Writer); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear invalidates the cookie, returning the user to the anonymous state.
func (m *Manager) Clear(c echo.Context) error {
	sess, _ := m.store.Get(c.Request(), cookieName)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response().Writer); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
