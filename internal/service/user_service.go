package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

const minPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// VerifyFunc checks a plain password against a stored hash. Wired to bcrypt
// in production; tests supply their own.
type VerifyFunc func(plain, hash string) bool

// BcryptVerify is the production VerifyFunc.
func BcryptVerify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ChangePassword(ctx context.Context, actor *policy.Actor, currentPassword, newPassword string) (*domain.User, error)
	// SelfDelete removes the actor's own account after re-verifying the
	// password. Cascades to prompts, comments, likes and admin membership.
	SelfDelete(ctx context.Context, actor *policy.Actor, targetID int64, currentPassword string) error
}

type userService struct {
	users     repository.UserRepository
	privilege *policy.Privilege
	verify    VerifyFunc
}

func NewUserService(users repository.UserRepository, privilege *policy.Privilege, verify VerifyFunc) UserService {
	return &userService{users: users, privilege: privilege, verify: verify}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if username == "" {
		return nil, fmt.Errorf("username is required: %w", domain.ErrBadRequest)
	}
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrBadRequest)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username is already taken: %w", domain.ErrBadRequest)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email is already registered: %w", domain.ErrBadRequest)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		// the unique constraints backstop a register race
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("username or email is already taken: %w", domain.ErrBadRequest)
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// do not reveal whether the username exists
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if !s.verify(password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, actor *policy.Actor, currentPassword, newPassword string) (*domain.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("password change requires identity: %w", domain.ErrUnauthorized)
	}
	if len(strings.TrimSpace(newPassword)) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrBadRequest)
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !s.verify(currentPassword, user.PasswordHash) {
		return nil, fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, actor.ID, string(hash)); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) SelfDelete(ctx context.Context, actor *policy.Actor, targetID int64, currentPassword string) error {
	if err := s.privilege.CheckSelfDelete(actor, targetID); err != nil {
		return err
	}

	// always re-verify, super-admin included
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !s.verify(currentPassword, user.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}

	return s.users.Delete(ctx, targetID)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.PasswordHash = ""
	clone.TOTPSecret = ""
	return &clone
}
