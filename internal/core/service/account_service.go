package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dailykharcha/kharcha/internal/core/domain"
	"github.com/dailykharcha/kharcha/internal/core/ports"
	"github.com/dailykharcha/kharcha/internal/core/validation"
)

// AccountService implements registration and login on top of the external
// identity provider and profile store.
type AccountService struct {
	gateway         ports.AuthGateway
	profiles        ports.ProfileStore
	limiter         ports.LoginLimiter
	persistProfiles bool
	log             zerolog.Logger
}

// Option configures an AccountService.
type Option func(*AccountService)

// WithLoginLimiter enables failed-attempt throttling on login.
func WithLoginLimiter(l ports.LoginLimiter) Option {
	return func(s *AccountService) { s.limiter = l }
}

// WithProfilePersistence controls whether Register writes the profile
// document after account creation.
func WithProfilePersistence(enabled bool) Option {
	return func(s *AccountService) { s.persistProfiles = enabled }
}

func NewAccountService(gateway ports.AuthGateway, profiles ports.ProfileStore, log zerolog.Logger, opts ...Option) *AccountService {
	s := &AccountService{
		gateway:         gateway,
		profiles:        profiles,
		persistProfiles: true,
		log:             log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register runs the sign-up workflow: validate, trim, create the account,
// then persist the profile document keyed by the new user id.
func (s *AccountService) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.UserIdentity, error) {
	if err := validation.ValidateRegistration(req); err != nil {
		return nil, err
	}

	req = req.Trimmed()

	identity, err := s.gateway.CreateAccount(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, err
		}
		s.log.Error().Err(err).Str("email", req.Email).Msg("account creation failed")
		return nil, domain.ErrAccountCreation
	}

	if s.persistProfiles {
		profile := domain.Profile{Name: req.Name, Email: req.Email}
		if err := s.profiles.Save(ctx, identity.ID, profile); err != nil {
			// The account already exists upstream; losing the profile only
			// costs the display name, which falls back to the email.
			s.log.Error().Err(err).Str("user_id", identity.ID).Msg("profile persistence failed")
		}
	}

	s.log.Info().Str("user_id", identity.ID).Msg("account registered")
	return identity, nil
}

// Login runs the sign-in workflow: validate, verify credentials, load the
// display profile and establish the session. Every provider rejection maps
// to ErrAuthenticationFailed so callers cannot distinguish an unknown email
// from a wrong password.
func (s *AccountService) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return nil, err
	}

	req = req.Trimmed()

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, req.Email)
		if err != nil {
			s.log.Error().Err(err).Msg("login limiter unavailable")
		} else if !ok {
			return nil, domain.ErrTooManyAttempts
		}
	}

	identity, err := s.gateway.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if s.limiter != nil {
			if lerr := s.limiter.RecordFailure(ctx, req.Email); lerr != nil {
				s.log.Error().Err(lerr).Msg("failed to record login failure")
			}
		}
		return nil, domain.ErrAuthenticationFailed
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, req.Email); err != nil {
			s.log.Error().Err(err).Msg("failed to reset login limiter")
		}
	}

	displayName := identity.Email
	profile, err := s.profiles.Get(ctx, identity.ID)
	switch {
	case err == nil && profile.Name != "":
		displayName = profile.Name
	case err != nil && !errors.Is(err, domain.ErrProfileNotFound):
		s.log.Error().Err(err).Str("user_id", identity.ID).Msg("profile read failed")
	}

	s.log.Info().Str("user_id", identity.ID).Msg("login succeeded")
	return &domain.Session{
		UserID:      identity.ID,
		Email:       identity.Email,
		DisplayName: displayName,
	}, nil
}
