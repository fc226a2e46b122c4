package service

import (
	"context"
	"fmt"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

// AdminService covers admin-role transitions and admin-scoped moderation.
// All eligibility rules live in the privilege policy; this service resolves
// targets and applies the approved mutations.
type AdminService interface {
	Promote(ctx context.Context, actor *policy.Actor, targetID int64) (*domain.User, error)
	Demote(ctx context.Context, actor *policy.Actor, targetID int64) error
	ListAdmins(ctx context.Context, actor *policy.Actor) ([]domain.User, error)
	ListUsers(ctx context.Context, actor *policy.Actor, offset, limit int) ([]domain.User, error)
	CountUsers(ctx context.Context, actor *policy.Actor) (int64, error)
	IsAdmin(ctx context.Context, actor *policy.Actor) (bool, error)
	RequireAdmin(ctx context.Context, actor *policy.Actor) error
	DeleteUser(ctx context.Context, actor *policy.Actor, targetID int64) error
	// SoftDeletePrompt overwrites the prompt's content with a moderation
	// notice naming the acting admin; the row, its likes and comments stay.
	SoftDeletePrompt(ctx context.Context, actor *policy.Actor, promptID int64) (*domain.Prompt, error)
}

type adminService struct {
	users     repository.UserRepository
	admins    repository.AdminRepository
	prompts   repository.PromptRepository
	privilege *policy.Privilege
}

func NewAdminService(
	users repository.UserRepository,
	admins repository.AdminRepository,
	prompts repository.PromptRepository,
	privilege *policy.Privilege,
) AdminService {
	return &adminService{users: users, admins: admins, prompts: prompts, privilege: privilege}
}

func (s *adminService) Promote(ctx context.Context, actor *policy.Actor, targetID int64) (*domain.User, error) {
	// privilege first: a non-admin must not learn whether the target exists
	if err := s.privilege.CheckPromote(ctx, actor, targetID); err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Add(ctx, targetID); err != nil {
		return nil, err
	}
	return sanitizeUser(target), nil
}

func (s *adminService) Demote(ctx context.Context, actor *policy.Actor, targetID int64) error {
	if err := s.privilege.CheckDemote(ctx, actor, targetID); err != nil {
		return err
	}
	// the super-admin has no membership row, so this is NotFound for it
	return s.admins.Remove(ctx, targetID)
}

func (s *adminService) ListAdmins(ctx context.Context, actor *policy.Actor) ([]domain.User, error) {
	if err := s.privilege.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	ids, err := s.admins.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	admins := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *sanitizeUser(user))
	}
	return admins, nil
}

func (s *adminService) ListUsers(ctx context.Context, actor *policy.Actor, offset, limit int) ([]domain.User, error) {
	if err := s.privilege.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *adminService) CountUsers(ctx context.Context, actor *policy.Actor) (int64, error) {
	if err := s.privilege.RequireAdmin(ctx, actor); err != nil {
		return 0, err
	}
	return s.users.Count(ctx)
}

func (s *adminService) IsAdmin(ctx context.Context, actor *policy.Actor) (bool, error) {
	if actor == nil {
		return false, fmt.Errorf("admin status requires identity: %w", domain.ErrUnauthorized)
	}
	return s.privilege.IsAdministrator(ctx, actor.ID)
}

func (s *adminService) RequireAdmin(ctx context.Context, actor *policy.Actor) error {
	return s.privilege.RequireAdmin(ctx, actor)
}

func (s *adminService) DeleteUser(ctx context.Context, actor *policy.Actor, targetID int64) error {
	if err := s.privilege.CheckAdminDeleteUser(ctx, actor, targetID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.users.Delete(ctx, targetID)
}

func (s *adminService) SoftDeletePrompt(ctx context.Context, actor *policy.Actor, promptID int64) (*domain.Prompt, error) {
	if err := s.privilege.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if err := s.privilege.CheckSoftDeletePrompt(ctx, actor, prompt.UserID); err != nil {
		return nil, err
	}

	notice := fmt.Sprintf("This prompt was removed by an administrator (admin_id: %d)", actor.ID)
	if err := s.prompts.Update(ctx, promptID, notice, prompt.IsPublic); err != nil {
		return nil, err
	}
	return s.prompts.GetByID(ctx, promptID)
}
