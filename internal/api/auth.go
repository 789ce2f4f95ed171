package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
	images      types.ImageURLer
}

func NewAuthHandler(authService service.IAuthService, images types.ImageURLer) *AuthHandler {
	return &AuthHandler{authService: authService, images: images}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{
		Token: token,
		User:  presenterFor(c, h.images).User(user),
	})
}
