package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-hub/internal/domain"
)

const superID = int64(1)

type fakeAdmins struct {
	ids map[int64]bool
	err error
}

func (f *fakeAdmins) IsAdmin(_ context.Context, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.ids[userID], nil
}

func newVisibility(t *testing.T, adminIDs ...int64) *Visibility {
	t.Helper()
	ids := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = true
	}
	return NewVisibility(&fakeAdmins{ids: ids}, superID)
}

func TestCanReadPrompt(t *testing.T) {
	v := newVisibility(t)
	public := &domain.Prompt{ID: 10, UserID: 5, IsPublic: true}
	private := &domain.Prompt{ID: 11, UserID: 5, IsPublic: false}

	tests := []struct {
		name    string
		actor   *Actor
		prompt  *domain.Prompt
		wantErr error
	}{
		{"public anonymous", nil, public, nil},
		{"public stranger", &Actor{ID: 9, IsActive: true}, public, nil},
		{"private anonymous", nil, private, domain.ErrUnauthorized},
		{"private author", &Actor{ID: 5, IsActive: true}, private, nil},
		{"private stranger", &Actor{ID: 9, IsActive: true}, private, domain.ErrForbidden},
		{"private super admin", &Actor{ID: superID, IsActive: true}, private, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CanReadPrompt(tt.actor, tt.prompt)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanUpdatePrompt_AuthorOnly(t *testing.T) {
	v := newVisibility(t)
	prompt := &domain.Prompt{ID: 10, UserID: 5, IsPublic: true}

	assert.ErrorIs(t, v.CanUpdatePrompt(nil, prompt), domain.ErrUnauthorized)
	assert.NoError(t, v.CanUpdatePrompt(&Actor{ID: 5, IsActive: true}, prompt))
	assert.ErrorIs(t, v.CanUpdatePrompt(&Actor{ID: 9, IsActive: true}, prompt), domain.ErrForbidden)
	// even the super-admin may not edit someone else's prompt
	assert.ErrorIs(t, v.CanUpdatePrompt(&Actor{ID: superID, IsActive: true}, prompt), domain.ErrForbidden)
}

func TestCanDeletePrompt_AuthorOrSuper(t *testing.T) {
	v := newVisibility(t, 7)
	prompt := &domain.Prompt{ID: 10, UserID: 5, IsPublic: false}

	assert.ErrorIs(t, v.CanDeletePrompt(nil, prompt), domain.ErrUnauthorized)
	assert.NoError(t, v.CanDeletePrompt(&Actor{ID: 5, IsActive: true}, prompt))
	assert.NoError(t, v.CanDeletePrompt(&Actor{ID: superID, IsActive: true}, prompt))
	// a regular admin holds no hard-delete right
	assert.ErrorIs(t, v.CanDeletePrompt(&Actor{ID: 7, IsActive: true}, prompt), domain.ErrForbidden)
}

func TestCommentMutation(t *testing.T) {
	v := newVisibility(t)
	comment := &domain.Comment{ID: 3, PromptID: 10, UserID: 5}

	assert.NoError(t, v.CanUpdateComment(&Actor{ID: 5, IsActive: true}, comment))
	assert.ErrorIs(t, v.CanUpdateComment(&Actor{ID: superID, IsActive: true}, comment), domain.ErrForbidden)

	assert.NoError(t, v.CanDeleteComment(&Actor{ID: 5, IsActive: true}, comment))
	assert.NoError(t, v.CanDeleteComment(&Actor{ID: superID, IsActive: true}, comment))
	assert.ErrorIs(t, v.CanDeleteComment(&Actor{ID: 9, IsActive: true}, comment), domain.ErrForbidden)
}

func TestCanMutatePromptLabels(t *testing.T) {
	ctx := context.Background()
	v := newVisibility(t, 7)
	prompt := &domain.Prompt{ID: 10, UserID: 5, IsPublic: true}

	assert.ErrorIs(t, v.CanMutatePromptLabels(ctx, nil, prompt), domain.ErrUnauthorized)
	assert.NoError(t, v.CanMutatePromptLabels(ctx, &Actor{ID: 5, IsActive: true}, prompt))
	assert.NoError(t, v.CanMutatePromptLabels(ctx, &Actor{ID: 7, IsActive: true}, prompt))
	assert.NoError(t, v.CanMutatePromptLabels(ctx, &Actor{ID: superID, IsActive: true}, prompt))
	assert.ErrorIs(t, v.CanMutatePromptLabels(ctx, &Actor{ID: 9, IsActive: true}, prompt), domain.ErrForbidden)
}

func TestCanAdministerLabels(t *testing.T) {
	ctx := context.Background()
	v := newVisibility(t, 7)

	assert.ErrorIs(t, v.CanAdministerLabels(ctx, nil), domain.ErrUnauthorized)
	assert.ErrorIs(t, v.CanAdministerLabels(ctx, &Actor{ID: 9, IsActive: true}), domain.ErrForbidden)
	assert.NoError(t, v.CanAdministerLabels(ctx, &Actor{ID: 7, IsActive: true}))
	assert.NoError(t, v.CanAdministerLabels(ctx, &Actor{ID: superID, IsActive: true}))
}

func TestAdminLookupFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	v := NewVisibility(&fakeAdmins{err: assert.AnError}, superID)

	err := v.CanAdministerLabels(ctx, &Actor{ID: 9, IsActive: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
