package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

// UserHandler serves registration and the caller's own account.
type UserHandler struct {
	users  service.IUserService
	images types.ImageURLer
}

func NewUserHandler(users service.IUserService, images types.ImageURLer) *UserHandler {
	return &UserHandler{users: users, images: images}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, guards []gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("/me", protect(guards, h.Me)...)
		users.PATCH("/me", protect(guards, h.UpdateMe)...)
		users.DELETE("/me", protect(guards, h.DeleteMe)...)
	}
}

// Register accepts JSON or multipart with an optional "avatar" file.
func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		handleBindError(c, err)
		return
	}

	var avatar *service.Upload
	if isMultipart(c) {
		upload, closeFn, err := formUpload(c, "avatar")
		if err != nil {
			handleBindError(c, err)
			return
		}
		defer closeFn()
		avatar = upload
	}

	user, err := h.users.Register(c.Request.Context(), &req, avatar)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenterFor(c, h.images).User(user))
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), callerFrom(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).User(user))
}

// UpdateMe accepts JSON, or multipart with an optional "avatar" file.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req types.UpdateMeRequest
	var avatar *service.Upload
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			handleBindError(c, err)
			return
		}
		upload, closeFn, err := formUpload(c, "avatar")
		if err != nil {
			handleBindError(c, err)
			return
		}
		defer closeFn()
		avatar = upload
	} else if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handleBindError(c, err)
			return
		}
	}

	user, err := h.users.UpdateMe(c.Request.Context(), callerFrom(c), &req, avatar)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).User(user))
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.users.DeleteMe(c.Request.Context(), callerFrom(c)); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
