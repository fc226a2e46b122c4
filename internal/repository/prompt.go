package repository

import (
	"context"

	"prompt-hub/internal/domain"
)

// PromptOrder selects the ordering of prompt listings.
type PromptOrder string

const (
	// PromptOrderRecent sorts by creation time, newest first.
	PromptOrderRecent PromptOrder = "recent"
	// PromptOrderMostLiked sorts by live like count, descending. Ties are
	// broken by newer creation time, then by higher id, so pagination is
	// stable.
	PromptOrderMostLiked PromptOrder = "most_liked"
)

// PromptRepository defines persistence operations for prompts. Returned
// prompts carry the author username and the like count derived from the
// prompt_likes rows.
type PromptRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, prompt *domain.Prompt) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Prompt, error)
	// GetContent returns only the prompt text, for content-only consumers.
	GetContent(ctx context.Context, id int64) (string, error)
	Update(ctx context.Context, id int64, content string, isPublic bool) error
	Delete(ctx context.Context, id int64) error

	ListPublic(ctx context.Context, order PromptOrder, offset, limit int) ([]domain.Prompt, error)
	// ListByUser returns a user's prompts, newest first. With publicOnly
	// set, private prompts are excluded.
	ListByUser(ctx context.Context, userID int64, publicOnly bool, offset, limit int) ([]domain.Prompt, error)
	// ListLikedBy returns the prompts a user has liked.
	ListLikedBy(ctx context.Context, userID int64, offset, limit int) ([]domain.Prompt, error)
	ListPublicByLabel(ctx context.Context, labelID int64, order PromptOrder, offset, limit int) ([]domain.Prompt, error)

	CountPublic(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	// CountByLabel counts prompts carrying the label. With seeAll the count
	// covers every prompt; otherwise it covers public prompts plus, when
	// viewerID is set, that viewer's own private ones.
	CountByLabel(ctx context.Context, labelID int64, viewerID *int64, seeAll bool) (int64, error)
}

// LikeRepository manages the (prompt, user) like associations. The unique
// pair constraint is the backstop against duplicate-insert races.
type LikeRepository interface {
	Init(ctx context.Context) error
	// Add inserts a like. Returns domain.ErrConflict if the pair exists.
	Add(ctx context.Context, promptID, userID int64) error
	// Remove deletes a like. Returns domain.ErrNotFound if none exists.
	Remove(ctx context.Context, promptID, userID int64) error
	Exists(ctx context.Context, promptID, userID int64) (bool, error)
	// LikedSet reports which of the given prompt ids the user liked, in one
	// query.
	LikedSet(ctx context.Context, userID int64, promptIDs []int64) (map[int64]bool, error)
	// CountByUser counts the likes a user has given, restricted to prompts
	// that are public or the user's own.
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
