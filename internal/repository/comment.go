package repository

import (
	"context"

	"prompt-hub/internal/domain"
)

// CommentRepository defines persistence operations for prompt comments.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	// ListByPrompt returns a prompt's comments, newest first.
	ListByPrompt(ctx context.Context, promptID int64, offset, limit int) ([]domain.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}
