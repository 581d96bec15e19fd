package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/dailykharcha/kharcha/internal/api/metrics"
	"github.com/dailykharcha/kharcha/internal/core/domain"
	"github.com/dailykharcha/kharcha/internal/core/ports"
	"github.com/dailykharcha/kharcha/internal/core/validation"
)

// AuthHandler exposes the registration and login workflows as a JSON API.
type AuthHandler struct {
	accounts  ports.AccountService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(accounts ports.AccountService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{accounts: accounts, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form fields"
// @Success      201   {object}  authResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.Register(c.Request().Context(), domain.RegistrationRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		countRegistration(err)
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login verifies credentials and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, err := h.accounts.Login(c.Request().Context(), domain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		countLogin(err)
		return err
	}

	token, err := h.generateToken(sess)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Token: token,
		User: &domain.UserIdentity{
			ID:          sess.UserID,
			Email:       sess.Email,
			DisplayName: sess.DisplayName,
		},
	})
}

// Me returns the identity carried by the bearer token.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	displayName, _ := c.Get("display_name").(string)
	return c.JSON(http.StatusOK, meResponse{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
	})
}

func (h *AuthHandler) generateToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   sess.UserID,
		"email": sess.Email,
		"name":  sess.DisplayName,
		"exp":   time.Now().Add(h.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}

func countRegistration(err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		for _, issue := range ve.Issues {
			metrics.ValidationFailuresTotal.WithLabelValues("register", string(issue.Code)).Inc()
		}
	case errors.Is(err, domain.ErrAccountExists):
		metrics.RegistrationsTotal.WithLabelValues("exists").Inc()
	default:
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
	}
}

func countLogin(err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		for _, issue := range ve.Issues {
			metrics.ValidationFailuresTotal.WithLabelValues("login", string(issue.Code)).Inc()
		}
	case errors.Is(err, domain.ErrAuthenticationFailed):
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
	}
}
