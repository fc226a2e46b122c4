package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-hub/internal/domain"
)

func newCommentService(t *testing.T, comments *fakeCommentRepo, prompts *fakePromptRepo) CommentService {
	t.Helper()
	return NewCommentService(comments, prompts, policyVisibility(newFakeAdminRepo()))
}

func TestCommentCreate(t *testing.T) {
	ctx := context.Background()
	prompts := newFakePromptRepo(
		&domain.Prompt{ID: 10, UserID: 5, IsPublic: true},
		&domain.Prompt{ID: 11, UserID: 5, IsPublic: false},
	)
	svc := newCommentService(t, newFakeCommentRepo(), prompts)

	_, err := svc.Create(ctx, nil, 10, "hi")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Create(ctx, actor(9), 10, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.Create(ctx, actor(9), 42, "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// commenting follows prompt visibility
	_, err = svc.Create(ctx, actor(9), 11, "hi")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	comment, err := svc.Create(ctx, actor(9), 10, "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(9), comment.UserID)
	assert.Equal(t, int64(10), comment.PromptID)
}

func TestCommentReadsGatedByPrompt(t *testing.T) {
	ctx := context.Background()
	prompts := newFakePromptRepo(&domain.Prompt{ID: 11, UserID: 5, IsPublic: false})
	comments := newFakeCommentRepo()
	svc := newCommentService(t, comments, prompts)

	created, err := svc.Create(ctx, actor(5), 11, "private note")
	require.NoError(t, err)

	_, err = svc.Get(ctx, nil, created.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Get(ctx, actor(9), created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Get(ctx, actor(5), created.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, actor(testSuperAdminID), created.ID)
	assert.NoError(t, err)

	_, err = svc.ListForPrompt(ctx, actor(9), 11, 0, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	list, err := svc.ListForPrompt(ctx, actor(5), 11, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCommentUpdateDelete(t *testing.T) {
	ctx := context.Background()
	prompts := newFakePromptRepo(&domain.Prompt{ID: 10, UserID: 5, IsPublic: true})
	svc := newCommentService(t, newFakeCommentRepo(), prompts)

	created, err := svc.Create(ctx, actor(9), 10, "hi")
	require.NoError(t, err)

	_, err = svc.Update(ctx, actor(5), created.ID, "edited")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	// update right does not extend to the super-admin
	_, err = svc.Update(ctx, actor(testSuperAdminID), created.ID, "edited")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.Update(ctx, actor(9), created.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.ErrorIs(t, svc.Delete(ctx, actor(5), created.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, actor(testSuperAdminID), created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, actor(9), created.ID), domain.ErrNotFound)
}
