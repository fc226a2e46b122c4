package policy

import (
	"context"
	"fmt"

	"prompt-hub/internal/domain"
)

// Visibility decides whether an actor may read or mutate prompts, comments
// and label associations. All ownership and privacy rules live here; callers
// resolve the resource first and surface domain.ErrNotFound before asking.
type Visibility struct {
	admins       AdminDirectory
	superAdminID int64
}

func NewVisibility(admins AdminDirectory, superAdminID int64) *Visibility {
	return &Visibility{admins: admins, superAdminID: superAdminID}
}

// CanReadPrompt allows public prompts for everyone; private prompts only for
// the author and the super-admin.
func (v *Visibility) CanReadPrompt(actor *Actor, prompt *domain.Prompt) error {
	if prompt.IsPublic {
		return nil
	}
	if actor == nil {
		return fmt.Errorf("private prompt requires identity: %w", domain.ErrUnauthorized)
	}
	if actor.ID == prompt.UserID || actor.ID == v.superAdminID {
		return nil
	}
	return fmt.Errorf("not the prompt author: %w", domain.ErrForbidden)
}

// CanUpdatePrompt allows only the author. Admins, super included, have no
// general edit right over other authors' prompts.
func (v *Visibility) CanUpdatePrompt(actor *Actor, prompt *domain.Prompt) error {
	if actor == nil {
		return fmt.Errorf("prompt update requires identity: %w", domain.ErrUnauthorized)
	}
	if actor.ID != prompt.UserID {
		return fmt.Errorf("not the prompt author: %w", domain.ErrForbidden)
	}
	return nil
}

// CanDeletePrompt allows the author and the super-admin.
func (v *Visibility) CanDeletePrompt(actor *Actor, prompt *domain.Prompt) error {
	if actor == nil {
		return fmt.Errorf("prompt delete requires identity: %w", domain.ErrUnauthorized)
	}
	if actor.ID != prompt.UserID && actor.ID != v.superAdminID {
		return fmt.Errorf("not the prompt author: %w", domain.ErrForbidden)
	}
	return nil
}

// CanUpdateComment allows only the comment author.
func (v *Visibility) CanUpdateComment(actor *Actor, comment *domain.Comment) error {
	if actor == nil {
		return fmt.Errorf("comment update requires identity: %w", domain.ErrUnauthorized)
	}
	if actor.ID != comment.UserID {
		return fmt.Errorf("not the comment author: %w", domain.ErrForbidden)
	}
	return nil
}

// CanDeleteComment allows the comment author and the super-admin.
func (v *Visibility) CanDeleteComment(actor *Actor, comment *domain.Comment) error {
	if actor == nil {
		return fmt.Errorf("comment delete requires identity: %w", domain.ErrUnauthorized)
	}
	if actor.ID != comment.UserID && actor.ID != v.superAdminID {
		return fmt.Errorf("not the comment author: %w", domain.ErrForbidden)
	}
	return nil
}

// CanMutatePromptLabels allows attaching/detaching labels to the prompt
// author and to any administrator.
func (v *Visibility) CanMutatePromptLabels(ctx context.Context, actor *Actor, prompt *domain.Prompt) error {
	if actor == nil {
		return fmt.Errorf("label mutation requires identity: %w", domain.ErrUnauthorized)
	}
	if actor.ID == prompt.UserID {
		return nil
	}
	admin, err := v.isAdministrator(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("neither author nor administrator: %w", domain.ErrForbidden)
	}
	return nil
}

// CanAdministerLabels gates label definition CRUD (create/rename/delete of
// the labels themselves) to administrators.
func (v *Visibility) CanAdministerLabels(ctx context.Context, actor *Actor) error {
	if actor == nil {
		return fmt.Errorf("label administration requires identity: %w", domain.ErrUnauthorized)
	}
	admin, err := v.isAdministrator(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("administrator privileges required: %w", domain.ErrForbidden)
	}
	return nil
}

func (v *Visibility) isAdministrator(ctx context.Context, userID int64) (bool, error) {
	if userID == v.superAdminID {
		return true, nil
	}
	admin, err := v.admins.IsAdmin(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	return admin, nil
}
