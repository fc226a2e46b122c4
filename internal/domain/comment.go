package domain

import "time"

// Comment is a user comment attached to a prompt.
type Comment struct {
	ID             int64
	PromptID       int64
	UserID         int64
	AuthorUsername string
	Content        string
	CreatedAt      time.Time
}
