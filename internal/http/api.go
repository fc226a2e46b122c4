package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
	"prompt-hub/internal/service"
	"prompt-hub/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	totp     service.TOTPService
	prompts  service.PromptService
	comments service.CommentService
	labels   service.LabelService
	admin    service.AdminService
	audit    service.AuditRecorder
	tokens   *TokenManager

	store         storage.Service
	auditBucket   string
	archivePrefix string
}

func NewHandler(
	users service.UserService,
	totp service.TOTPService,
	prompts service.PromptService,
	comments service.CommentService,
	labels service.LabelService,
	admin service.AdminService,
	audit service.AuditRecorder,
	tokens *TokenManager,
	store storage.Service,
	auditBucket, archivePrefix string,
) *Handler {
	return &Handler{
		users:         users,
		totp:          totp,
		prompts:       prompts,
		comments:      comments,
		labels:        labels,
		admin:         admin,
		audit:         audit,
		tokens:        tokens,
		store:         store,
		auditBucket:   auditBucket,
		archivePrefix: archivePrefix,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/auth/register", h.audited(), h.register)
		api.POST("/auth/login", h.audited(), h.login)

		api.GET("/me", h.authRequired(), h.me)
		api.PUT("/me/password", h.authRequired(), h.changePassword)

		totp := api.Group("/totp", h.authRequired())
		{
			totp.POST("/setup", h.totpSetup)
			totp.POST("/verify", h.totpVerify)
			totp.DELETE("", h.totpDeactivate)
			totp.GET("/status", h.totpStatus)
		}

		prompts := api.Group("/prompts")
		{
			prompts.POST("", h.authRequired(), h.audited(), h.createPrompt)
			prompts.GET("", h.authOptional(), h.listPublicPrompts)
			prompts.GET("/count", h.countPublicPrompts)
			prompts.GET("/own", h.authRequired(), h.listOwnPrompts)
			prompts.GET("/own/count", h.authRequired(), h.countOwnPrompts)
			prompts.GET("/favorites", h.authRequired(), h.listFavoritePrompts)
			prompts.GET("/likes/count", h.authRequired(), h.countLikesGiven)

			prompts.GET("/:id", h.authOptional(), h.getPrompt)
			prompts.GET("/:id/content", h.authOptional(), h.getPromptContent)
			prompts.GET("/:id/withlike", h.authOptional(), h.getPromptWithLike)
			prompts.PUT("/:id", h.authRequired(), h.audited(), h.updatePrompt)
			prompts.DELETE("/:id", h.authRequired(), h.audited(), h.deletePrompt)

			prompts.POST("/:id/like", h.authRequired(), h.likePrompt)
			prompts.DELETE("/:id/like", h.authRequired(), h.unlikePrompt)
			prompts.GET("/:id/iflike", h.authRequired(), h.promptLikeStatus)

			prompts.POST("/:id/comments", h.authRequired(), h.createComment)
			prompts.GET("/:id/comments", h.authOptional(), h.listPromptComments)

			prompts.GET("/:id/labels", h.authOptional(), h.listPromptLabels)
			prompts.POST("/:id/labels", h.authRequired(), h.attachLabel)
			prompts.DELETE("/:id/labels/:name", h.authRequired(), h.detachLabel)
		}

		api.GET("/users/:id/prompts", h.authOptional(), h.listUserPrompts)
		api.DELETE("/users/:id", h.authRequired(), h.audited(), h.selfDeleteUser)

		comments := api.Group("/comments")
		{
			comments.GET("/:id", h.authOptional(), h.getComment)
			comments.PUT("/:id", h.authRequired(), h.updateComment)
			comments.DELETE("/:id", h.authRequired(), h.deleteComment)
		}

		labels := api.Group("/labels")
		{
			labels.GET("", h.listLabels)
			labels.POST("", h.authRequired(), h.createLabel)
			labels.GET("/:name", h.getLabel)
			labels.PUT("/:name", h.authRequired(), h.renameLabel)
			labels.DELETE("/:name", h.authRequired(), h.deleteLabel)
			labels.GET("/:name/prompts", h.authOptional(), h.listPromptsByLabel)
			labels.GET("/:name/prompts/count", h.authOptional(), h.countPromptsByLabel)
		}

		admin := api.Group("/admin", h.authRequired())
		{
			admin.GET("/ifadmin", h.ifAdmin)
			admin.GET("/admins", h.listAdmins)
			admin.POST("/admins/:id", h.audited(), h.promoteUser)
			admin.DELETE("/admins/:id", h.audited(), h.demoteUser)
			admin.GET("/users", h.listUsers)
			admin.GET("/users/count", h.countUsers)
			admin.DELETE("/users/:id", h.audited(), h.adminDeleteUser)
			admin.DELETE("/prompts/:id", h.audited(), h.softDeletePrompt)
			admin.GET("/audit/archives", h.listAuditArchives)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// audited records who touched a sensitive route. It runs after the handler so
// that the route pattern is fully resolved, and never affects the response.
func (h *Handler) audited() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var userID *int64
		if actor := currentActor(c); actor != nil {
			id := actor.ID
			userID = &id
		}
		h.audit.Record(c.Request.Context(), c.FullPath(), c.ClientIP(), userID, currentUsername(c))
	}
}

// respondErr maps domain sentinel errors to HTTP statuses.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int, ok bool) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, 0, false
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit, true
}

func parseOrder(c *gin.Context) (repository.PromptOrder, bool) {
	switch c.DefaultQuery("order", string(repository.PromptOrderRecent)) {
	case string(repository.PromptOrderRecent):
		return repository.PromptOrderRecent, true
	case string(repository.PromptOrderMostLiked):
		return repository.PromptOrderMostLiked, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order"})
		return "", false
	}
}
