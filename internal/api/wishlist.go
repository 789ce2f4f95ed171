package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Amaytushin/Ratatouille-tusul/internal/metrics"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

type WishlistHandler struct {
	wishlistService service.IWishlistService
	images          types.ImageURLer
}

func NewWishlistHandler(wishlistService service.IWishlistService, images types.ImageURLer) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, images: images}
}

// RegisterRoutes mounts the wishlist endpoints. All of them need a signed-in user.
func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup, guards []gin.HandlerFunc) {
	wishlist := router.Group("/wishlist")
	wishlist.Use(guards...)
	{
		wishlist.GET("/my", h.Mine)
		wishlist.POST("/add", h.Add)
		wishlist.DELETE("/remove/:id", h.Remove)
	}
}

func (h *WishlistHandler) Mine(c *gin.Context) {
	entries, err := h.wishlistService.Mine(c.Request.Context(), callerFrom(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	p := presenterFor(c, h.images)
	views := make([]types.WishlistView, 0, len(entries))
	for _, e := range entries {
		views = append(views, *p.Wishlist(e.Entry, e.AverageRating))
	}
	c.JSON(http.StatusOK, views)
}

// Add saves a recipe to the caller's wishlist. Adding it twice returns the
// existing entry with 200.
func (h *WishlistHandler) Add(c *gin.Context) {
	var req types.WishlistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	entry, created, err := h.wishlistService.Add(c.Request.Context(), callerFrom(c), req.RecipeID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	metrics.RecordWishlistAdd(created)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, presenterFor(c, h.images).Wishlist(entry.Entry, entry.AverageRating))
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.wishlistService.Remove(c.Request.Context(), callerFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
