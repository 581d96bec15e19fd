package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dailykharcha/kharcha/internal/api/session"
)

// SessionKey is the context key holding the domain.Session for the request.
const SessionKey = "session"

// RequireSession gates a page behind an established session. Anonymous
// requests are redirected to the login screen.
func RequireSession(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := mgr.Current(c)
			if !sess.Authenticated() {
				return c.Redirect(http.StatusFound, "/login")
			}
			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}
