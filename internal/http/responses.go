package http

import (
	"time"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/storage"
)

type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	TOTPEnabled bool   `json:"totp_enabled"`
	CreatedAt   string `json:"created_at"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsActive:    user.IsActive,
		TOTPEnabled: user.TOTPEnabled,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

type PromptResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	AuthorUsername string `json:"author_username"`
	Content        string `json:"content"`
	IsPublic       bool   `json:"is_public"`
	NoOfLikes      int64  `json:"no_of_likes"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func promptToResponse(prompt domain.Prompt) PromptResponse {
	return PromptResponse{
		ID:             prompt.ID,
		UserID:         prompt.UserID,
		AuthorUsername: prompt.AuthorUsername,
		Content:        prompt.Content,
		IsPublic:       prompt.IsPublic,
		NoOfLikes:      prompt.NoOfLikes,
		CreatedAt:      prompt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      prompt.UpdatedAt.Format(time.RFC3339),
	}
}

type PromptWithLikeResponse struct {
	PromptResponse
	IsLikedByUser bool `json:"is_liked_by_user"`
}

func promptWithLikeToResponse(prompt domain.PromptWithLikeStatus) PromptWithLikeResponse {
	return PromptWithLikeResponse{
		PromptResponse: promptToResponse(prompt.Prompt),
		IsLikedByUser:  prompt.IsLikedByUser,
	}
}

func promptsWithLikeToResponse(prompts []domain.PromptWithLikeStatus) []PromptWithLikeResponse {
	resp := make([]PromptWithLikeResponse, len(prompts))
	for i := range prompts {
		resp[i] = promptWithLikeToResponse(prompts[i])
	}
	return resp
}

type CommentResponse struct {
	ID             int64  `json:"id"`
	PromptID       int64  `json:"prompt_id"`
	UserID         int64  `json:"user_id"`
	AuthorUsername string `json:"author_username"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

func commentToResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:             comment.ID,
		PromptID:       comment.PromptID,
		UserID:         comment.UserID,
		AuthorUsername: comment.AuthorUsername,
		Content:        comment.Content,
		CreatedAt:      comment.CreatedAt.Format(time.RFC3339),
	}
}

type LabelResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func labelToResponse(label domain.Label) LabelResponse {
	return LabelResponse{ID: label.ID, Name: label.Name}
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
