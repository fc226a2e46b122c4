package repository

import (
	"context"

	"prompt-hub/internal/domain"
)

// LabelRepository defines persistence operations for labels and their
// prompt associations. Label names are unique.
type LabelRepository interface {
	Init(ctx context.Context) error
	// Create inserts a label. Returns domain.ErrConflict on a duplicate name.
	Create(ctx context.Context, name string) (*domain.Label, error)
	GetByID(ctx context.Context, id int64) (*domain.Label, error)
	GetByName(ctx context.Context, name string) (*domain.Label, error)
	List(ctx context.Context, offset, limit int) ([]domain.Label, error)
	// Rename changes a label's name. Returns domain.ErrNotFound if the label
	// is absent and domain.ErrConflict if the name is taken by another label.
	Rename(ctx context.Context, id int64, name string) (*domain.Label, error)
	// DeleteByName removes the label and all of its prompt associations,
	// leaving the prompts untouched.
	DeleteByName(ctx context.Context, name string) error

	// Attach associates a label with a prompt. Returns domain.ErrConflict if
	// the association exists.
	Attach(ctx context.Context, promptID, labelID int64) error
	// Detach removes the association. Returns domain.ErrNotFound if absent.
	Detach(ctx context.Context, promptID, labelID int64) error
	ListForPrompt(ctx context.Context, promptID int64) ([]domain.Label, error)
}
