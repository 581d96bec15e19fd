package handler

import "github.com/dailykharcha/kharcha/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// Field-level rules (formats, password strength, matching) are enforced by
// the core validation package so the API and the HTML forms report the same
// messages.

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string               `json:"token,omitempty"`
	User  *domain.UserIdentity `json:"user,omitempty"`
}

type meResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
