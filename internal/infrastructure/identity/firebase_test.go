package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

func identityToolkitStub(t *testing.T, signUpStatus, signInStatus int, signUpBody, signInBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in %s", r.URL.String())
		}

		switch {
		case strings.Contains(r.URL.Path, "accounts:signUp"):
			w.WriteHeader(signUpStatus)
			_, _ = w.Write([]byte(signUpBody))
		case strings.Contains(r.URL.Path, "accounts:signInWithPassword"):
			w.WriteHeader(signInStatus)
			_, _ = w.Write([]byte(signInBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestFirebaseGateway_CreateAccount(t *testing.T) {
	srv := identityToolkitStub(t, http.StatusOK, http.StatusOK,
		`{"localId":"abc123","email":"bo@x.com"}`, `{}`)
	defer srv.Close()

	gw := NewFirebaseGateway("test-key", srv.URL)
	user, err := gw.CreateAccount(context.Background(), "bo@x.com", "Passw0rd!", "Bo")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if user.ID != "abc123" || user.Email != "bo@x.com" {
		t.Fatalf("unexpected identity: %+v", user)
	}
	// Provider response had no display name; the requested one sticks.
	if user.DisplayName != "Bo" {
		t.Fatalf("unexpected display name %q", user.DisplayName)
	}
}

func TestFirebaseGateway_CreateAccount_EmailExists(t *testing.T) {
	srv := identityToolkitStub(t, http.StatusBadRequest, http.StatusOK,
		`{"error":{"message":"EMAIL_EXISTS"}}`, `{}`)
	defer srv.Close()

	gw := NewFirebaseGateway("test-key", srv.URL)
	_, err := gw.CreateAccount(context.Background(), "bo@x.com", "Passw0rd!", "Bo")
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestFirebaseGateway_VerifyCredentials(t *testing.T) {
	srv := identityToolkitStub(t, http.StatusOK, http.StatusOK,
		`{}`, `{"localId":"abc123","email":"bo@x.com","displayName":"Bo"}`)
	defer srv.Close()

	gw := NewFirebaseGateway("test-key", srv.URL)
	user, err := gw.VerifyCredentials(context.Background(), "bo@x.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("VerifyCredentials returned error: %v", err)
	}
	if user.ID != "abc123" || user.DisplayName != "Bo" {
		t.Fatalf("unexpected identity: %+v", user)
	}
}

func TestFirebaseGateway_VerifyCredentials_Rejections(t *testing.T) {
	for _, code := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED"} {
		body, _ := json.Marshal(map[string]any{"error": map[string]string{"message": code}})
		srv := identityToolkitStub(t, http.StatusOK, http.StatusBadRequest, `{}`, string(body))

		gw := NewFirebaseGateway("test-key", srv.URL)
		_, err := gw.VerifyCredentials(context.Background(), "bo@x.com", "nope")
		if !errors.Is(err, domain.ErrAuthenticationFailed) {
			t.Errorf("%s: expected ErrAuthenticationFailed, got %v", code, err)
		}
		srv.Close()
	}
}

func TestFirebaseGateway_UnknownErrorIsNotGeneric(t *testing.T) {
	srv := identityToolkitStub(t, http.StatusOK, http.StatusInternalServerError,
		`{}`, `{"error":{"message":"QUOTA_EXCEEDED"}}`)
	defer srv.Close()

	gw := NewFirebaseGateway("test-key", srv.URL)
	_, err := gw.VerifyCredentials(context.Background(), "bo@x.com", "pw")
	if err == nil || errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("provider outages must not look like credential rejections, got %v", err)
	}
}

func TestNewGateway_UnknownBackend(t *testing.T) {
	if _, err := NewGateway("ldap", "", "", nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestNewGateway_FirebaseRequiresAPIKey(t *testing.T) {
	if _, err := NewGateway(BackendFirebase, "", "", nil); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}
