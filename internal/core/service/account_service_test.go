package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dailykharcha/kharcha/internal/core/domain"
	"github.com/dailykharcha/kharcha/internal/core/validation"
)

type stubGateway struct {
	createFn func(ctx context.Context, email, password, displayName string) (*domain.UserIdentity, error)
	verifyFn func(ctx context.Context, email, password string) (*domain.UserIdentity, error)

	createCalls int
	verifyCalls int
}

func (g *stubGateway) CreateAccount(ctx context.Context, email, password, displayName string) (*domain.UserIdentity, error) {
	g.createCalls++
	return g.createFn(ctx, email, password, displayName)
}

func (g *stubGateway) VerifyCredentials(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	g.verifyCalls++
	return g.verifyFn(ctx, email, password)
}

type stubProfiles struct {
	profiles map[string]domain.Profile
	saveErr  error
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{profiles: make(map[string]domain.Profile)}
}

func (p *stubProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	profile, ok := p.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &profile, nil
}

func (p *stubProfiles) Save(_ context.Context, userID string, profile domain.Profile) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.profiles[userID] = profile
	return nil
}

type stubLimiter struct {
	allowed  bool
	failures int
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) { return l.allowed, nil }
func (l *stubLimiter) RecordFailure(context.Context, string) error { l.failures++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error         { l.resets++; return nil }

func validRegistration() domain.RegistrationRequest {
	return domain.RegistrationRequest{
		Name:            "Bo",
		Email:           "bo@x.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(_ context.Context, email, password, displayName string) (*domain.UserIdentity, error) {
			if email != "bo@x.com" || password != "Passw0rd!" || displayName != "Bo" {
				t.Fatalf("unexpected args: %s %s %s", email, password, displayName)
			}
			return &domain.UserIdentity{ID: "u1", Email: email, DisplayName: displayName}, nil
		},
	}
	profiles := newStubProfiles()
	svc := NewAccountService(gateway, profiles, zerolog.Nop())

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	profile, ok := profiles.profiles["u1"]
	if !ok {
		t.Fatalf("expected profile to be persisted")
	}
	if profile.Name != "Bo" || profile.Email != "bo@x.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestAccountService_Register_TrimsBeforeStorage(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(_ context.Context, email, password, displayName string) (*domain.UserIdentity, error) {
			if email != "bo@x.com" || displayName != "Bo" || password != "Passw0rd!" {
				t.Fatalf("fields not trimmed: %q %q %q", email, displayName, password)
			}
			return &domain.UserIdentity{ID: "u1", Email: email, DisplayName: displayName}, nil
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	req := domain.RegistrationRequest{
		Name:            "  Bo  ",
		Email:           " bo@x.com ",
		Password:        " Passw0rd! ",
		ConfirmPassword: "Passw0rd!",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
}

func TestAccountService_Register_ValidationBlocksGatewayCall(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(context.Context, string, string, string) (*domain.UserIdentity, error) {
			return nil, errors.New("should not be called")
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	req := validRegistration()
	req.Email = "not-an-email"
	_, err := svc.Register(context.Background(), req)

	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gateway.createCalls != 0 {
		t.Fatalf("gateway called despite validation failure")
	}
}

func TestAccountService_Register_AccountExists(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(context.Context, string, string, string) (*domain.UserIdentity, error) {
			return nil, domain.ErrAccountExists
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	if _, err := svc.Register(context.Background(), validRegistration()); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountService_Register_ProviderFailureMapped(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(context.Context, string, string, string) (*domain.UserIdentity, error) {
			return nil, errors.New("provider exploded")
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	if _, err := svc.Register(context.Background(), validRegistration()); !errors.Is(err, domain.ErrAccountCreation) {
		t.Fatalf("expected ErrAccountCreation, got %v", err)
	}
}

func TestAccountService_Register_PersistenceDisabled(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(_ context.Context, email, _, displayName string) (*domain.UserIdentity, error) {
			return &domain.UserIdentity{ID: "u1", Email: email, DisplayName: displayName}, nil
		},
	}
	profiles := newStubProfiles()
	svc := NewAccountService(gateway, profiles, zerolog.Nop(), WithProfilePersistence(false))

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(profiles.profiles) != 0 {
		t.Fatalf("profile persisted despite disabled persistence")
	}
}

func TestAccountService_Register_ProfileWriteFailureNotFatal(t *testing.T) {
	gateway := &stubGateway{
		createFn: func(_ context.Context, email, _, displayName string) (*domain.UserIdentity, error) {
			return &domain.UserIdentity{ID: "u1", Email: email, DisplayName: displayName}, nil
		},
	}
	profiles := newStubProfiles()
	profiles.saveErr = errors.New("mongo down")
	svc := NewAccountService(gateway, profiles, zerolog.Nop())

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("expected success despite profile write failure, got %v", err)
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	gateway := &stubGateway{
		verifyFn: func(_ context.Context, email, password string) (*domain.UserIdentity, error) {
			if email != "bo@x.com" || password != "Passw0rd!" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.UserIdentity{ID: "u1", Email: email}, nil
		},
	}
	profiles := newStubProfiles()
	profiles.profiles["u1"] = domain.Profile{Name: "Bo", Email: "bo@x.com"}
	svc := NewAccountService(gateway, profiles, zerolog.Nop())

	sess, err := svc.Login(context.Background(), domain.LoginRequest{Email: "bo@x.com", Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.UserID != "u1" || sess.DisplayName != "Bo" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestAccountService_Login_DisplayNameFallsBackToEmail(t *testing.T) {
	gateway := &stubGateway{
		verifyFn: func(_ context.Context, email, _ string) (*domain.UserIdentity, error) {
			return &domain.UserIdentity{ID: "u1", Email: email}, nil
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	sess, err := svc.Login(context.Background(), domain.LoginRequest{Email: "bo@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.DisplayName != "bo@x.com" {
		t.Fatalf("expected email fallback, got %q", sess.DisplayName)
	}
}

func TestAccountService_Login_RejectionIsGeneric(t *testing.T) {
	gateway := &stubGateway{
		verifyFn: func(context.Context, string, string) (*domain.UserIdentity, error) {
			return nil, errors.New("user not found in upstream store")
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "ghost@x.com", Password: "pw"})
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestAccountService_Login_ValidationBlocksGatewayCall(t *testing.T) {
	gateway := &stubGateway{
		verifyFn: func(context.Context, string, string) (*domain.UserIdentity, error) {
			return nil, errors.New("should not be called")
		},
	}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop())

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "", Password: "x"})
	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gateway.verifyCalls != 0 {
		t.Fatalf("gateway called despite validation failure")
	}
}

func TestAccountService_Login_Throttled(t *testing.T) {
	gateway := &stubGateway{
		verifyFn: func(context.Context, string, string) (*domain.UserIdentity, error) {
			t.Fatalf("gateway should not be reached when throttled")
			return nil, nil
		},
	}
	limiter := &stubLimiter{allowed: false}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop(), WithLoginLimiter(limiter))

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "bo@x.com", Password: "pw"})
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAccountService_Login_LimiterBookkeeping(t *testing.T) {
	rejected := true
	gateway := &stubGateway{
		verifyFn: func(_ context.Context, email, _ string) (*domain.UserIdentity, error) {
			if rejected {
				return nil, domain.ErrAuthenticationFailed
			}
			return &domain.UserIdentity{ID: "u1", Email: email}, nil
		},
	}
	limiter := &stubLimiter{allowed: true}
	svc := NewAccountService(gateway, newStubProfiles(), zerolog.Nop(), WithLoginLimiter(limiter))

	req := domain.LoginRequest{Email: "bo@x.com", Password: "pw"}
	if _, err := svc.Login(context.Background(), req); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if limiter.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", limiter.failures)
	}

	rejected = false
	if _, err := svc.Login(context.Background(), req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
}
