package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type labelRequest struct {
	Name string `json:"name" binding:"required"`
}

func labelNameParam(c *gin.Context) (string, bool) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid label name"})
		return "", false
	}
	return name, true
}

func (h *Handler) createLabel(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := h.labels.Create(c.Request.Context(), currentActor(c), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, labelToResponse(*label))
}

func (h *Handler) listLabels(c *gin.Context) {
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	labels, err := h.labels.List(c.Request.Context(), offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := make([]LabelResponse, len(labels))
	for i := range labels {
		resp[i] = labelToResponse(labels[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getLabel(c *gin.Context) {
	name, ok := labelNameParam(c)
	if !ok {
		return
	}

	label, err := h.labels.GetByName(c.Request.Context(), name)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, labelToResponse(*label))
}

func (h *Handler) renameLabel(c *gin.Context) {
	name, ok := labelNameParam(c)
	if !ok {
		return
	}

	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := h.labels.GetByName(c.Request.Context(), name)
	if err != nil {
		respondErr(c, err)
		return
	}

	renamed, err := h.labels.Rename(c.Request.Context(), currentActor(c), label.ID, req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, labelToResponse(*renamed))
}

func (h *Handler) deleteLabel(c *gin.Context) {
	name, ok := labelNameParam(c)
	if !ok {
		return
	}

	if err := h.labels.DeleteByName(c.Request.Context(), currentActor(c), name); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

func (h *Handler) attachLabel(c *gin.Context) {
	promptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.labels.AttachToPrompt(c.Request.Context(), currentActor(c), promptID, req.Name); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"prompt_id": promptID, "label": req.Name})
}

func (h *Handler) detachLabel(c *gin.Context) {
	promptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	name, ok := labelNameParam(c)
	if !ok {
		return
	}

	if err := h.labels.DetachFromPrompt(c.Request.Context(), currentActor(c), promptID, name); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt_id": promptID, "label": name})
}

func (h *Handler) listPromptLabels(c *gin.Context) {
	promptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	labels, err := h.labels.LabelsForPrompt(c.Request.Context(), currentActor(c), promptID)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := make([]LabelResponse, len(labels))
	for i := range labels {
		resp[i] = labelToResponse(labels[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listPromptsByLabel(c *gin.Context) {
	name, ok := labelNameParam(c)
	if !ok {
		return
	}
	order, ok := parseOrder(c)
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	prompts, err := h.labels.ListPromptsByLabel(c.Request.Context(), currentActor(c), name, order, offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptsWithLikeToResponse(prompts))
}

func (h *Handler) countPromptsByLabel(c *gin.Context) {
	name, ok := labelNameParam(c)
	if !ok {
		return
	}

	count, err := h.prompts.CountByLabel(c.Request.Context(), currentActor(c), name)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
