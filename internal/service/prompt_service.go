package service

import (
	"context"
	"errors"
	"fmt"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

// PromptService covers the prompt lifecycle plus the derived orderings and
// counts. Like counts are always live counts over the like rows; listings
// carry per-actor like status computed with one batched membership query.
type PromptService interface {
	Create(ctx context.Context, actor *policy.Actor, content string, isPublic bool) (*domain.Prompt, error)
	Get(ctx context.Context, actor *policy.Actor, id int64) (*domain.Prompt, error)
	// GetContent returns only the prompt text, for content-only consumers.
	GetContent(ctx context.Context, actor *policy.Actor, id int64) (string, error)
	GetWithLikeStatus(ctx context.Context, actor *policy.Actor, id int64) (*domain.PromptWithLikeStatus, error)
	Update(ctx context.Context, actor *policy.Actor, id int64, content string, isPublic bool) (*domain.Prompt, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error

	ListPublic(ctx context.Context, actor *policy.Actor, order repository.PromptOrder, offset, limit int) ([]domain.PromptWithLikeStatus, error)
	ListOwn(ctx context.Context, actor *policy.Actor, offset, limit int) ([]domain.PromptWithLikeStatus, error)
	// ListByUser returns a user's prompts; private ones are included only
	// when the actor is that user or the super-admin.
	ListByUser(ctx context.Context, actor *policy.Actor, userID int64, offset, limit int) ([]domain.PromptWithLikeStatus, error)
	ListFavorites(ctx context.Context, actor *policy.Actor, offset, limit int) ([]domain.PromptWithLikeStatus, error)

	Like(ctx context.Context, actor *policy.Actor, promptID int64) error
	Unlike(ctx context.Context, actor *policy.Actor, promptID int64) error
	IsLiked(ctx context.Context, actor *policy.Actor, promptID int64) (bool, error)

	CountPublic(ctx context.Context) (int64, error)
	CountOwn(ctx context.Context, actor *policy.Actor) (int64, error)
	CountByLabel(ctx context.Context, actor *policy.Actor, labelName string) (int64, error)
	CountLikesGiven(ctx context.Context, actor *policy.Actor) (int64, error)
}

type promptService struct {
	prompts    repository.PromptRepository
	likes      repository.LikeRepository
	labels     repository.LabelRepository
	visibility *policy.Visibility
	privilege  *policy.Privilege
}

func NewPromptService(
	prompts repository.PromptRepository,
	likes repository.LikeRepository,
	labels repository.LabelRepository,
	visibility *policy.Visibility,
	privilege *policy.Privilege,
) PromptService {
	return &promptService{
		prompts:    prompts,
		likes:      likes,
		labels:     labels,
		visibility: visibility,
		privilege:  privilege,
	}
}

func (s *promptService) Create(ctx context.Context, actor *policy.Actor, content string, isPublic bool) (*domain.Prompt, error) {
	if actor == nil {
		return nil, fmt.Errorf("prompt creation requires identity: %w", domain.ErrUnauthorized)
	}
	if content == "" {
		return nil, fmt.Errorf("prompt content is required: %w", domain.ErrBadRequest)
	}

	prompt := &domain.Prompt{
		UserID:   actor.ID,
		Content:  content,
		IsPublic: isPublic,
	}
	id, err := s.prompts.Create(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return s.prompts.GetByID(ctx, id)
}

func (s *promptService) Get(ctx context.Context, actor *policy.Actor, id int64) (*domain.Prompt, error) {
	// existence first, then visibility
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CanReadPrompt(actor, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *promptService) GetContent(ctx context.Context, actor *policy.Actor, id int64) (string, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return "", err
	}
	return s.prompts.GetContent(ctx, id)
}

func (s *promptService) GetWithLikeStatus(ctx context.Context, actor *policy.Actor, id int64) (*domain.PromptWithLikeStatus, error) {
	prompt, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	decorated := &domain.PromptWithLikeStatus{Prompt: *prompt}
	if actor != nil {
		liked, err := s.likes.Exists(ctx, id, actor.ID)
		if err != nil {
			return nil, err
		}
		decorated.IsLikedByUser = liked
	}
	return decorated, nil
}

func (s *promptService) Update(ctx context.Context, actor *policy.Actor, id int64, content string, isPublic bool) (*domain.Prompt, error) {
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CanUpdatePrompt(actor, prompt); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("prompt content is required: %w", domain.ErrBadRequest)
	}

	if err := s.prompts.Update(ctx, id, content, isPublic); err != nil {
		return nil, err
	}
	return s.prompts.GetByID(ctx, id)
}

func (s *promptService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.visibility.CanDeletePrompt(actor, prompt); err != nil {
		return err
	}
	return s.prompts.Delete(ctx, id)
}

func (s *promptService) ListPublic(ctx context.Context, actor *policy.Actor, order repository.PromptOrder, offset, limit int) ([]domain.PromptWithLikeStatus, error) {
	prompts, err := s.prompts.ListPublic(ctx, order, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, actor, prompts)
}

func (s *promptService) ListOwn(ctx context.Context, actor *policy.Actor, offset, limit int) ([]domain.PromptWithLikeStatus, error) {
	if actor == nil {
		return nil, fmt.Errorf("listing own prompts requires identity: %w", domain.ErrUnauthorized)
	}
	prompts, err := s.prompts.ListByUser(ctx, actor.ID, false, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, actor, prompts)
}

func (s *promptService) ListByUser(ctx context.Context, actor *policy.Actor, userID int64, offset, limit int) ([]domain.PromptWithLikeStatus, error) {
	publicOnly := true
	if actor != nil && (actor.ID == userID || actor.ID == s.privilege.SuperAdminID()) {
		publicOnly = false
	}
	prompts, err := s.prompts.ListByUser(ctx, userID, publicOnly, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, actor, prompts)
}

func (s *promptService) ListFavorites(ctx context.Context, actor *policy.Actor, offset, limit int) ([]domain.PromptWithLikeStatus, error) {
	if actor == nil {
		return nil, fmt.Errorf("listing favorites requires identity: %w", domain.ErrUnauthorized)
	}
	prompts, err := s.prompts.ListLikedBy(ctx, actor.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, actor, prompts)
}

func (s *promptService) Like(ctx context.Context, actor *policy.Actor, promptID int64) error {
	if actor == nil {
		return fmt.Errorf("liking requires identity: %w", domain.ErrUnauthorized)
	}
	if _, err := s.prompts.GetByID(ctx, promptID); err != nil {
		return err
	}
	// Add maps the unique-pair violation to ErrConflict, so a concurrent
	// duplicate cannot slip through
	return s.likes.Add(ctx, promptID, actor.ID)
}

func (s *promptService) Unlike(ctx context.Context, actor *policy.Actor, promptID int64) error {
	if actor == nil {
		return fmt.Errorf("unliking requires identity: %w", domain.ErrUnauthorized)
	}
	if _, err := s.prompts.GetByID(ctx, promptID); err != nil {
		return err
	}
	return s.likes.Remove(ctx, promptID, actor.ID)
}

func (s *promptService) IsLiked(ctx context.Context, actor *policy.Actor, promptID int64) (bool, error) {
	if actor == nil {
		return false, fmt.Errorf("like status requires identity: %w", domain.ErrUnauthorized)
	}
	if _, err := s.prompts.GetByID(ctx, promptID); err != nil {
		return false, err
	}
	return s.likes.Exists(ctx, promptID, actor.ID)
}

func (s *promptService) CountPublic(ctx context.Context) (int64, error) {
	return s.prompts.CountPublic(ctx)
}

func (s *promptService) CountOwn(ctx context.Context, actor *policy.Actor) (int64, error) {
	if actor == nil {
		return 0, fmt.Errorf("own prompt count requires identity: %w", domain.ErrUnauthorized)
	}
	return s.prompts.CountByUser(ctx, actor.ID)
}

func (s *promptService) CountByLabel(ctx context.Context, actor *policy.Actor, labelName string) (int64, error) {
	label, err := s.labels.GetByName(ctx, labelName)
	if err != nil {
		// an unknown label simply has no prompts
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if actor == nil {
		return s.prompts.CountByLabel(ctx, label.ID, nil, false)
	}
	if actor.ID == s.privilege.SuperAdminID() {
		return s.prompts.CountByLabel(ctx, label.ID, nil, true)
	}
	viewerID := actor.ID
	return s.prompts.CountByLabel(ctx, label.ID, &viewerID, false)
}

func (s *promptService) CountLikesGiven(ctx context.Context, actor *policy.Actor) (int64, error) {
	if actor == nil {
		return 0, fmt.Errorf("like count requires identity: %w", domain.ErrUnauthorized)
	}
	return s.likes.CountByUser(ctx, actor.ID)
}

// decorate attaches the actor's like status to each prompt with a single
// membership query for the whole page.
func (s *promptService) decorate(ctx context.Context, actor *policy.Actor, prompts []domain.Prompt) ([]domain.PromptWithLikeStatus, error) {
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
