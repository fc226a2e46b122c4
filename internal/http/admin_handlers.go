package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ifAdmin(c *gin.Context) {
	isAdmin, err := h.admin.IsAdmin(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_admin": isAdmin})
}

func (h *Handler) listAdmins(c *gin.Context) {
	admins, err := h.admin.ListAdmins(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := make([]UserResponse, len(admins))
	for i := range admins {
		resp[i] = userToResponse(admins[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) promoteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.admin.Promote(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) demoteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.admin.Demote(c.Request.Context(), currentActor(c), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"demoted": id})
}

func (h *Handler) listUsers(c *gin.Context) {
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	users, err := h.admin.ListUsers(c.Request.Context(), currentActor(c), offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) countUsers(c *gin.Context) {
	count, err := h.admin.CountUsers(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) adminDeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), currentActor(c), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) softDeletePrompt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	prompt, err := h.admin.SoftDeletePrompt(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, promptToResponse(*prompt))
}

// listAuditArchives exposes the exported audit batches. Returns 404 when no
// archive destination is configured.
func (h *Handler) listAuditArchives(c *gin.Context) {
	if err := h.admin.RequireAdmin(c.Request.Context(), currentActor(c)); err != nil {
		respondErr(c, err)
		return
	}
	if h.store == nil || h.auditBucket == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit archive not configured"})
		return
	}

	objects, err := h.store.ListObjects(c.Request.Context(), h.auditBucket, h.archivePrefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}
