package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dailykharcha/kharcha/internal/api/metrics"
	"github.com/dailykharcha/kharcha/internal/api/middleware"
	"github.com/dailykharcha/kharcha/internal/api/session"
	"github.com/dailykharcha/kharcha/internal/core/domain"
	"github.com/dailykharcha/kharcha/internal/core/ports"
	"github.com/dailykharcha/kharcha/internal/core/validation"
)

// PagesHandler serves the HTML screens: the account forms for anonymous
// visitors and the expense screens once a session exists.
type PagesHandler struct {
	accounts  ports.AccountService
	sessions  *session.Manager
	templates *template.Template
	log       zerolog.Logger
}

func NewPagesHandler(accounts ports.AccountService, sessions *session.Manager, templates *template.Template, log zerolog.Logger) *PagesHandler {
	return &PagesHandler{accounts: accounts, sessions: sessions, templates: templates, log: log}
}

// pageData is passed to every screen template.
type pageData struct {
	Nav     domain.NavContext
	Active  domain.Screen
	Session domain.Session
	Message template.HTML
	Success bool
	Form    map[string]string
}

// Home routes to the first screen of whichever navigation context the
// session allows.
func (h *PagesHandler) Home(c echo.Context) error {
	nav := domain.NavFor(h.sessions.Current(c))
	return c.Redirect(http.StatusFound, nav.Screens[0].Path())
}

// LoginPage renders the sign-in form.
func (h *PagesHandler) LoginPage(c echo.Context) error {
	if sess := h.sessions.Current(c); sess.Authenticated() {
		return c.Redirect(http.StatusFound, domain.ScreenTodaysExpenses.Path())
	}
	return h.render(c, domain.ScreenLogin, pageData{})
}

// RegisterPage renders the sign-up form.
func (h *PagesHandler) RegisterPage(c echo.Context) error {
	if sess := h.sessions.Current(c); sess.Authenticated() {
		return c.Redirect(http.StatusFound, domain.ScreenTodaysExpenses.Path())
	}
	return h.render(c, domain.ScreenRegister, pageData{})
}

// LoginSubmit handles the sign-in form. Validation failures and credential
// rejections re-render the form with an inline message; success establishes
// the session and moves to the expense screens.
func (h *PagesHandler) LoginSubmit(c echo.Context) error {
	req := domain.LoginRequest{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	sess, err := h.accounts.Login(c.Request().Context(), req)
	if err != nil {
		countLogin(err)
		return h.render(c, domain.ScreenLogin, pageData{
			Message: renderMessage(formMessage(err)),
			Form:    map[string]string{"email": req.Email},
		})
	}

	if err := h.sessions.Establish(c, *sess); err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.ActiveSessionsTotal.WithLabelValues("created").Inc()
	return c.Redirect(http.StatusFound, domain.ScreenTodaysExpenses.Path())
}

// RegisterSubmit handles the sign-up form. On success the visitor lands on
// the sign-in form with a confirmation message.
func (h *PagesHandler) RegisterSubmit(c echo.Context) error {
	req := domain.RegistrationRequest{
		Name:            c.FormValue("name"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	}

	user, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		countRegistration(err)
		return h.render(c, domain.ScreenRegister, pageData{
			Message: renderMessage(formMessage(err)),
			Form:    map[string]string{"name": req.Name, "email": req.Email},
		})
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return h.render(c, domain.ScreenLogin, pageData{
		Message: renderMessage("Account **" + user.Email + "** created. Please sign in."),
		Success: true,
	})
}

// Logout clears the session and returns to the account screens.
func (h *PagesHandler) Logout(c echo.Context) error {
	if err := h.sessions.Clear(c); err != nil {
		h.log.Error().Err(err).Msg("failed to clear session")
	}
	metrics.ActiveSessionsTotal.WithLabelValues("cleared").Inc()
	return c.Redirect(http.StatusFound, domain.ScreenLogin.Path())
}

// TodaysExpenses renders the today's-expenses placeholder screen.
func (h *PagesHandler) TodaysExpenses(c echo.Context) error {
	return h.render(c, domain.ScreenTodaysExpenses, pageData{})
}

// PreviousExpenses renders the previous-expenses placeholder screen.
func (h *PagesHandler) PreviousExpenses(c echo.Context) error {
	return h.render(c, domain.ScreenPreviousExpenses, pageData{})
}

func (h *PagesHandler) render(c echo.Context, screen domain.Screen, data pageData) error {
	sess, ok := c.Get(middleware.SessionKey).(domain.Session)
	if !ok {
		sess = h.sessions.Current(c)
	}

	data.Session = sess
	data.Nav = domain.NavFor(sess)
	data.Active = screen

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, string(screen)+".html", data); err != nil {
		h.log.Error().Err(err).Str("screen", string(screen)).Msg("template execution failed")
		return c.String(http.StatusInternalServerError, "Failed to render page")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// formMessage maps a workflow error to the inline message shown above the
// form. Credential rejections stay generic on purpose.
func formMessage(err error) string {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "Invalid email or password."
	case errors.Is(err, domain.ErrAccountExists):
		return "An account with this email already exists."
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "Too many failed attempts. Please try again later."
	}
	return "Something went wrong. Please try again."
}

// renderMessage converts the plain-text message markup (**bold**, newlines,
// "- " bullets) into safe HTML.
func renderMessage(msg string) template.HTML {
	escaped := template.HTMLEscapeString(msg)

	var b strings.Builder
	bold := false
	for {
		i := strings.Index(escaped, "**")
		if i < 0 {
			b.WriteString(escaped)
			break
		}
		b.WriteString(escaped[:i])
		if bold {
			b.WriteString("</strong>")
		} else {
			b.WriteString("<strong>")
		}
		bold = !bold
		escaped = escaped[i+2:]
	}

	return template.HTML(strings.ReplaceAll(b.String(), "\n", "<br>"))
}
