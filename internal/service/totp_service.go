package service

import (
	"context"
	"fmt"

	"github.com/pquerna/otp/totp"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

// TOTPEnrollment carries a freshly generated secret and the provisioning URI
// for authenticator apps. Nothing is stored until the setup is verified.
type TOTPEnrollment struct {
	Secret string
	QRURI  string
}

// TOTPService manages two-factor enrollment for user accounts.
type TOTPService interface {
	Setup(ctx context.Context, actor *policy.Actor) (*TOTPEnrollment, error)
	VerifySetup(ctx context.Context, actor *policy.Actor, secret, code string) error
	Deactivate(ctx context.Context, actor *policy.Actor) error
	Enabled(ctx context.Context, actor *policy.Actor) (bool, error)
}

type totpService struct {
	users  repository.UserRepository
	issuer string
}

func NewTOTPService(users repository.UserRepository, issuer string) TOTPService {
	return &totpService{users: users, issuer: issuer}
}

func (s *totpService) Setup(ctx context.Context, actor *policy.Actor) (*TOTPEnrollment, error) {
	user, err := s.requireUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, fmt.Errorf("totp is already enabled: %w", domain.ErrForbidden)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	return &TOTPEnrollment{Secret: key.Secret(), QRURI: key.URL()}, nil
}

func (s *totpService) VerifySetup(ctx context.Context, actor *policy.Actor, secret, code string) error {
	user, err := s.requireUser(ctx, actor)
	if err != nil {
		return err
	}
	if user.TOTPEnabled {
		return fmt.Errorf("totp is already enabled: %w", domain.ErrForbidden)
	}

	if !totp.Validate(code, secret) {
		return fmt.Errorf("totp code is incorrect: %w", domain.ErrBadRequest)
	}

	return s.users.SetTOTP(ctx, user.ID, true, secret)
}

func (s *totpService) Deactivate(ctx context.Context, actor *policy.Actor) error {
	user, err := s.requireUser(ctx, actor)
	if err != nil {
		return err
	}
	if !user.TOTPEnabled {
		return fmt.Errorf("totp is not enabled: %w", domain.ErrForbidden)
	}

	return s.users.SetTOTP(ctx, user.ID, false, "")
}

func (s *totpService) Enabled(ctx context.Context, actor *policy.Actor) (bool, error) {
	user, err := s.requireUser(ctx, actor)
	if err != nil {
		return false, err
	}
	return user.TOTPEnabled, nil
}

func (s *totpService) requireUser(ctx context.Context, actor *policy.Actor) (*domain.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("totp management requires identity: %w", domain.ErrUnauthorized)
	}
	return s.users.GetByID(ctx, actor.ID)
}
