package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) totpSetup(c *gin.Context) {
	enrollment, err := h.totp.Setup(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":           enrollment.Secret,
		"provisioning_uri": enrollment.QRURI,
	})
}

type totpVerifyRequest struct {
	Secret string `json:"secret" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

func (h *Handler) totpVerify(c *gin.Context) {
	var req totpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.totp.VerifySetup(c.Request.Context(), currentActor(c), req.Secret, req.Code); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totp_enabled": true})
}

func (h *Handler) totpDeactivate(c *gin.Context) {
	if err := h.totp.Deactivate(c.Request.Context(), currentActor(c)); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totp_enabled": false})
}

func (h *Handler) totpStatus(c *gin.Context) {
	enabled, err := h.totp.Enabled(c.Request.Context(), currentActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totp_enabled": enabled})
}
