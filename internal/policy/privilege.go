package policy

import (
	"context"
	"fmt"

	"prompt-hub/internal/domain"
)

// Privilege governs admin-role transitions and admin-scoped moderation under
// a strict hierarchy: super-admin > regular admin > normal user. The
// super-admin id is injected configuration, not a membership row; it can
// never be promoted, demoted or deleted.
type Privilege struct {
	admins       AdminDirectory
	superAdminID int64
}

func NewPrivilege(admins AdminDirectory, superAdminID int64) *Privilege {
	return &Privilege{admins: admins, superAdminID: superAdminID}
}

// SuperAdminID exposes the designated super-admin id for collaborators that
// need it (moderation notices, count scoping).
func (p *Privilege) SuperAdminID() int64 {
	return p.superAdminID
}

// IsAdministrator reports whether the user id holds admin membership or is
// the super-admin.
func (p *Privilege) IsAdministrator(ctx context.Context, userID int64) (bool, error) {
	if userID == p.superAdminID {
		return true, nil
	}
	admin, err := p.admins.IsAdmin(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	return admin, nil
}

// RequireAdmin fails unless the actor is an administrator.
func (p *Privilege) RequireAdmin(ctx context.Context, actor *Actor) error {
	if actor == nil {
		return fmt.Errorf("admin action requires identity: %w", domain.ErrUnauthorized)
	}
	admin, err := p.IsAdministrator(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("administrator privileges required: %w", domain.ErrForbidden)
	}
	return nil
}

// CheckPromote validates promoting target to administrator. The caller has
// already established that the target user exists.
func (p *Privilege) CheckPromote(ctx context.Context, actor *Actor, targetID int64) error {
	if err := p.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if targetID == p.superAdminID {
		return fmt.Errorf("user is already an administrator: %w", domain.ErrConflict)
	}
	admin, err := p.admins.IsAdmin(ctx, targetID)
	if err != nil {
		return fmt.Errorf("admin lookup: %w", err)
	}
	if admin {
		return fmt.Errorf("user is already an administrator: %w", domain.ErrConflict)
	}
	return nil
}

// CheckDemote validates revoking target's membership. Self-demotion is
// rejected outright. The super-admin never has a membership row, so demoting
// it surfaces as not-found at removal time.
func (p *Privilege) CheckDemote(ctx context.Context, actor *Actor, targetID int64) error {
	if err := p.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if targetID == actor.ID {
		return fmt.Errorf("cannot demote yourself: %w", domain.ErrBadRequest)
	}
	return nil
}

// CheckAdminDeleteUser validates an admin deleting a user account. Admins
// may delete only non-admin accounts; admin-on-admin deletion is
// categorically forbidden.
func (p *Privilege) CheckAdminDeleteUser(ctx context.Context, actor *Actor, targetID int64) error {
	if err := p.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	targetAdmin, err := p.IsAdministrator(ctx, targetID)
	if err != nil {
		return err
	}
	if targetAdmin {
		return fmt.Errorf("cannot delete an administrator account: %w", domain.ErrForbidden)
	}
	return nil
}

// CheckSoftDeletePrompt validates moderating a prompt's content. Prompts
// authored by the super-admin are off limits.
func (p *Privilege) CheckSoftDeletePrompt(ctx context.Context, actor *Actor, promptAuthorID int64) error {
	if err := p.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if promptAuthorID == p.superAdminID {
		return fmt.Errorf("cannot moderate the super-admin's prompt: %w", domain.ErrForbidden)
	}
	return nil
}

// CheckSelfDelete validates a user deleting their own account. The
// super-admin account is never deletable, not even by itself.
func (p *Privilege) CheckSelfDelete(actor *Actor, targetID int64) error {
	if actor == nil {
		return fmt.Errorf("account deletion requires identity: %w", domain.ErrUnauthorized)
	}
	if targetID != actor.ID || targetID == p.superAdminID {
		return fmt.Errorf("not allowed to delete this account: %w", domain.ErrForbidden)
	}
	return nil
}
