package service

import (
	"context"
	"fmt"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

// CommentService covers comment lifecycle. Reads are gated by the parent
// prompt's visibility: comments of a private prompt are only readable by
// whoever can read the prompt.
type CommentService interface {
	Create(ctx context.Context, actor *policy.Actor, promptID int64, content string) (*domain.Comment, error)
	Get(ctx context.Context, actor *policy.Actor, id int64) (*domain.Comment, error)
	ListForPrompt(ctx context.Context, actor *policy.Actor, promptID int64, offset, limit int) ([]domain.Comment, error)
	Update(ctx context.Context, actor *policy.Actor, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error
}

type commentService struct {
	comments   repository.CommentRepository
	prompts    repository.PromptRepository
	visibility *policy.Visibility
}

func NewCommentService(comments repository.CommentRepository, prompts repository.PromptRepository, visibility *policy.Visibility) CommentService {
	return &commentService{comments: comments, prompts: prompts, visibility: visibility}
}

func (s *commentService) Create(ctx context.Context, actor *policy.Actor, promptID int64, content string) (*domain.Comment, error) {
	if actor == nil {
		return nil, fmt.Errorf("commenting requires identity: %w", domain.ErrUnauthorized)
	}
	if content == "" {
		return nil, fmt.Errorf("comment content is required: %w", domain.ErrBadRequest)
	}

	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CanReadPrompt(actor, prompt); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PromptID: promptID,
		UserID:   actor.ID,
		Content:  content,
	}
	id, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, id)
}

func (s *commentService) Get(ctx context.Context, actor *policy.Actor, id int64) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPromptRead(ctx, actor, comment.PromptID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListForPrompt(ctx context.Context, actor *policy.Actor, promptID int64, offset, limit int) ([]domain.Comment, error) {
	if err := s.checkPromptRead(ctx, actor, promptID); err != nil {
		return nil, err
	}
	return s.comments.ListByPrompt(ctx, promptID, offset, limit)
}

func (s *commentService) Update(ctx context.Context, actor *policy.Actor, id int64, content string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CanUpdateComment(actor, comment); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("comment content is required: %w", domain.ErrBadRequest)
	}

	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.visibility.CanDeleteComment(actor, comment); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *commentService) checkPromptRead(ctx context.Context, actor *policy.Actor, promptID int64) error {
	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return err
	}
	return s.visibility.CanReadPrompt(actor, prompt)
}
