package repository

import (
	"context"

	"prompt-hub/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetTOTP(ctx context.Context, id int64, enabled bool, secret string) error
	// Delete removes the user and cascades to owned prompts, comments,
	// likes and admin membership.
	Delete(ctx context.Context, id int64) error
}

// AdminRepository tracks which user ids hold administrator membership.
// The designated super-admin never has a membership row.
type AdminRepository interface {
	Init(ctx context.Context) error
	// Add grants membership. Returns domain.ErrConflict if already present.
	Add(ctx context.Context, userID int64) error
	// Remove revokes membership. Returns domain.ErrNotFound if absent.
	Remove(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
}
