package service

import (
	"context"
	"fmt"
	"strings"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

// LabelService covers label definitions (admin-only mutation, open reads),
// prompt-label associations (author or admin) and label-filtered listings.
type LabelService interface {
	Create(ctx context.Context, actor *policy.Actor, name string) (*domain.Label, error)
	Rename(ctx context.Context, actor *policy.Actor, id int64, name string) (*domain.Label, error)
	DeleteByName(ctx context.Context, actor *policy.Actor, name string) error
	GetByName(ctx context.Context, name string) (*domain.Label, error)
	List(ctx context.Context, offset, limit int) ([]domain.Label, error)

	AttachToPrompt(ctx context.Context, actor *policy.Actor, promptID int64, labelName string) error
	DetachFromPrompt(ctx context.Context, actor *policy.Actor, promptID int64, labelName string) error
	// LabelsForPrompt is visibility-gated: the labels of a private prompt
	// follow the prompt itself.
	LabelsForPrompt(ctx context.Context, actor *policy.Actor, promptID int64) ([]domain.Label, error)

	ListPromptsByLabel(ctx context.Context, actor *policy.Actor, labelName string, order repository.PromptOrder, offset, limit int) ([]domain.PromptWithLikeStatus, error)
}

type labelService struct {
	labels     repository.LabelRepository
	prompts    repository.PromptRepository
	likes      repository.LikeRepository
	visibility *policy.Visibility
}

func NewLabelService(
	labels repository.LabelRepository,
	prompts repository.PromptRepository,
	likes repository.LikeRepository,
	visibility *policy.Visibility,
) LabelService {
	return &labelService{labels: labels, prompts: prompts, likes: likes, visibility: visibility}
}

func (s *labelService) Create(ctx context.Context, actor *policy.Actor, name string) (*domain.Label, error) {
	if err := s.visibility.CanAdministerLabels(ctx, actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("label name is required: %w", domain.ErrBadRequest)
	}
	return s.labels.Create(ctx, name)
}

func (s *labelService) Rename(ctx context.Context, actor *policy.Actor, id int64, name string) (*domain.Label, error) {
	if err := s.visibility.CanAdministerLabels(ctx, actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("label name is required: %w", domain.ErrBadRequest)
	}
	return s.labels.Rename(ctx, id, name)
}

func (s *labelService) DeleteByName(ctx context.Context, actor *policy.Actor, name string) error {
	if err := s.visibility.CanAdministerLabels(ctx, actor); err != nil {
		return err
	}
	return s.labels.DeleteByName(ctx, name)
}

func (s *labelService) GetByName(ctx context.Context, name string) (*domain.Label, error) {
	return s.labels.GetByName(ctx, name)
}

func (s *labelService) List(ctx context.Context, offset, limit int) ([]domain.Label, error) {
	return s.labels.List(ctx, offset, limit)
}

func (s *labelService) AttachToPrompt(ctx context.Context, actor *policy.Actor, promptID int64, labelName string) error {
	label, err := s.checkLabelMutation(ctx, actor, promptID, labelName)
	if err != nil {
		return err
	}
	return s.labels.Attach(ctx, promptID, label.ID)
}

func (s *labelService) DetachFromPrompt(ctx context.Context, actor *policy.Actor, promptID int64, labelName string) error {
	label, err := s.checkLabelMutation(ctx, actor, promptID, labelName)
	if err != nil {
		return err
	}
	return s.labels.Detach(ctx, promptID, label.ID)
}

func (s *labelService) LabelsForPrompt(ctx context.Context, actor *policy.Actor, promptID int64) ([]domain.Label, error) {
	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CanReadPrompt(actor, prompt); err != nil {
		return nil, err
	}
	return s.labels.ListForPrompt(ctx, promptID)
}

func (s *labelService) ListPromptsByLabel(ctx context.Context, actor *policy.Actor, labelName string, order repository.PromptOrder, offset, limit int) ([]domain.PromptWithLikeStatus, error) {
	label, err := s.labels.GetByName(ctx, labelName)
	if err != nil {
		return nil, err
	}

	prompts, err := s.prompts.ListPublicByLabel(ctx, label.ID, order, offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]domain.PromptWithLikeStatus, len(prompts))
	for i := range prompts {
		result[i] = domain.PromptWithLikeStatus{Prompt: prompts[i]}
	}
	if actor == nil || len(prompts) == 0 {
		return result, nil
	}

	ids := make([]int64, len(prompts))
	for i := range prompts {
		ids[i] = prompts[i].ID
	}
	liked, err := s.likes.LikedSet(ctx, actor.ID, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].IsLikedByUser = liked[result[i].ID]
	}
	return result, nil
}

func (s *labelService) checkLabelMutation(ctx context.Context, actor *policy.Actor, promptID int64, labelName string) (*domain.Label, error) {
	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CanMutatePromptLabels(ctx, actor, prompt); err != nil {
		return nil, err
	}
	return s.labels.GetByName(ctx, labelName)
}
