package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type promptRequest struct {
	Content  string `json:"content" binding:"required"`
	IsPublic *bool  `json:"is_public" binding:"required"`
}

func (h *Handler) createPrompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.prompts.Create(c.Request.Context(), currentActor(c), req.Content, *req.IsPublic)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, promptToResponse(*prompt))
}

func (h *Handler) getPrompt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	prompt, err := h.prompts.Get(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptToResponse(*prompt))
}

func (h *Handler) getPromptContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, err := h.prompts.GetContent(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *Handler) getPromptWithLike(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	prompt, err := h.prompts.GetWithLikeStatus(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptWithLikeToResponse(*prompt))
}

func (h *Handler) updatePrompt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.prompts.Update(c.Request.Context(), currentActor(c), id, req.Content, *req.IsPublic)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptToResponse(*prompt))
}

func (h *Handler) deletePrompt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.prompts.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) listPublicPrompts(c *gin.Context) {
	order, ok := parseOrder(c)
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	prompts, err := h.prompts.ListPublic(c.Request.Context(), currentActor(c), order, offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptsWithLikeToResponse(prompts))
}

func (h *Handler) listOwnPrompts(c *gin.Context) {
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	prompts, err := h.prompts.ListOwn(c.Request.Context(), currentActor(c), offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptsWithLikeToResponse(prompts))
}

func (h *Handler) listUserPrompts(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	prompts, err := h.prompts.ListByUser(c.Request.Context(), currentActor(c), userID, offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptsWithLikeToResponse(prompts))
}

func (h *Handler) listFavoritePrompts(c *gin.Context) {
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	prompts, err := h.prompts.ListFavorites(c.Request.Context(), currentActor(c), offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptsWithLikeToResponse(prompts))
}

func (h *Handler) likePrompt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.prompts.Like(c.Request.Context(), currentActor(c), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"liked": id})
}

func (h *Handler) unlikePrompt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.prompts.Unlike(c.Request.Context(), currentActor(c), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unliked": id})
}

func (h *Handler) promptLikeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, err := h.prompts.IsLiked(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_liked": liked})
}

func (h *Handler) countPublicPrompts(c *gin.Context) {
	count, err := h.prompts.CountPublic(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) countOwnPrompts(c *gin.Context) {
	count, err := h.prompts.CountOwn(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) countLikesGiven(c *gin.Context) {
	count, err := h.prompts.CountLikesGiven(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
