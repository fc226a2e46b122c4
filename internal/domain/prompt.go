package domain

import "time"

// Prompt is a text prompt shared on the platform. Like counts are always
// derived from the prompt_likes rows, never stored on the prompt itself.
type Prompt struct {
	ID             int64
	UserID         int64
	AuthorUsername string
	Content        string
	IsPublic       bool
	NoOfLikes      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PromptWithLikeStatus decorates a prompt with whether a given actor liked it.
type PromptWithLikeStatus struct {
	Prompt
	IsLikedByUser bool
}

// PromptLike is the (prompt, user) association backing like counts.
// At most one row may exist per pair.
type PromptLike struct {
	ID       int64
	PromptID int64
	UserID   int64
}
