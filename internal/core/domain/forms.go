package domain

import "strings"

// LoginRequest carries the sign-in form fields as submitted.
type LoginRequest struct {
	Email    string
	Password string
}

// Trimmed returns a copy with surrounding whitespace removed from every
// field. Trimming happens once here, before comparison and before storage.
func (r LoginRequest) Trimmed() LoginRequest {
	return LoginRequest{
		Email:    strings.TrimSpace(r.Email),
		Password: strings.TrimSpace(r.Password),
	}
}

// RegistrationRequest carries the sign-up form fields as submitted.
type RegistrationRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Trimmed returns a copy with surrounding whitespace removed from every
// field.
func (r RegistrationRequest) Trimmed() RegistrationRequest {
	return RegistrationRequest{
		Name:            strings.TrimSpace(r.Name),
		Email:           strings.TrimSpace(r.Email),
		Password:        strings.TrimSpace(r.Password),
		ConfirmPassword: strings.TrimSpace(r.ConfirmPassword),
	}
}
