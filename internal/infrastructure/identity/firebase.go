// Package identity provides the AuthGateway implementations: a client for
// the Google Identity Toolkit REST API (what Firebase Authentication speaks)
// and a self-hosted backend for deployments without a Google project.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

const (
	defaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com"
	identityCallTimeout       = 10 * time.Second
)

// FirebaseGateway talks to the Identity Toolkit accounts endpoints.
type FirebaseGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFirebaseGateway(apiKey, baseURL string) *FirebaseGateway {
	if baseURL == "" {
		baseURL = defaultIdentityToolkitURL
	}
	return &FirebaseGateway{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: identityCallTimeout},
	}
}

type accountPayload struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	DisplayName       string `json:"displayName,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *FirebaseGateway) CreateAccount(ctx context.Context, email, password, displayName string) (*domain.UserIdentity, error) {
	resp, err := g.post(ctx, "accounts:signUp", accountPayload{
		Email:             email,
		Password:          password,
		DisplayName:       displayName,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}

	name := resp.DisplayName
	if name == "" {
		name = displayName
	}
	return &domain.UserIdentity{ID: resp.LocalID, Email: resp.Email, DisplayName: name}, nil
}

func (g *FirebaseGateway) VerifyCredentials(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	resp, err := g.post(ctx, "accounts:signInWithPassword", accountPayload{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.UserIdentity{ID: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName}, nil
}

func (g *FirebaseGateway) post(ctx context.Context, endpoint string, payload accountPayload) (*accountResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", g.baseURL, endpoint, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, mapProviderError(errResp.Error.Message, resp.StatusCode)
	}

	var acct accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&acct); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return &acct, nil
}

// mapProviderError converts Identity Toolkit error codes into domain
// errors. Credential rejections collapse into ErrAuthenticationFailed so no
// caller can tell an unknown email from a wrong password.
func mapProviderError(code string, status int) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_EXISTS"):
		return domain.ErrAccountExists
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "USER_DISABLED"):
		return domain.ErrAuthenticationFailed
	}
	return fmt.Errorf("identity provider returned %d (%s)", status, code)
}
