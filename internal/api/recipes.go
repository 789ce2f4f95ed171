package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Amaytushin/Ratatouille-tusul/internal/metrics"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	ratingService service.IRatingService
	images        types.ImageURLer
}

func NewRecipeHandler(recipeService service.IRecipeService, ratingService service.IRatingService, images types.ImageURLer) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		ratingService: ratingService,
		images:        images,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, guards []gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", protect(guards, h.CreateRecipe)...)
		recipes.GET("/by_category", h.ByCategory)
		recipes.POST("/rate", protect(guards, h.RateRecipe)...)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", protect(guards, h.UpdateRecipe)...)
		recipes.PATCH("/:id", protect(guards, h.PatchRecipe)...)
		recipes.DELETE("/:id", protect(guards, h.DeleteRecipe)...)
		recipes.GET("/:id/ratings", h.ListRatings)
	}
	router.POST("/search_recipes", h.SearchRecipes)
}

func (h *RecipeHandler) renderList(c *gin.Context, rated []service.RatedRecipe) {
	p := presenterFor(c, h.images)
	views := make([]types.RecipeView, 0, len(rated))
	for _, r := range rated {
		views = append(views, *p.Recipe(r.Recipe, r.AverageRating))
	}
	c.JSON(http.StatusOK, views)
}

func (h *RecipeHandler) render(c *gin.Context, status int, rated *service.RatedRecipe) {
	c.JSON(status, presenterFor(c, h.images).Recipe(rated.Recipe, rated.AverageRating))
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	rated, err := h.recipeService.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.renderList(c, rated)
}

func (h *RecipeHandler) ByCategory(c *gin.Context) {
	rated, err := h.recipeService.ByCategory(c.Request.Context(), c.Query("category"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.renderList(c, rated)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	var req types.SearchRecipesRequest
	// No body at all searches for nothing.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		handleBindError(c, err)
		return
	}
	rated, err := h.recipeService.Search(c.Request.Context(), req.Ingredients)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.renderList(c, rated)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rated, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.render(c, http.StatusOK, rated)
}

// bindRecipeWrite reads a full recipe from JSON or from a multipart form with
// an optional "image" file.
func bindRecipeWrite(c *gin.Context) (*types.RecipeWrite, *service.Upload, func(), bool) {
	if !isMultipart(c) {
		var w types.RecipeWrite
		if err := c.ShouldBindJSON(&w); err != nil {
			handleBindError(c, err)
			return nil, nil, nil, false
		}
		return &w, nil, func() {}, true
	}

	var form types.RecipeForm
	if err := c.ShouldBind(&form); err != nil {
		handleBindError(c, err)
		return nil, nil, nil, false
	}
	w, err := form.ToWrite()
	if err != nil {
		handleBindError(c, err)
		return nil, nil, nil, false
	}
	upload, closeFn, err := formUpload(c, "image")
	if err != nil {
		handleBindError(c, err)
		return nil, nil, nil, false
	}
	return w, upload, closeFn, true
}

// CreateRecipe stores a recipe authored by the caller.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	w, image, closeFn, ok := bindRecipeWrite(c)
	if !ok {
		return
	}
	defer closeFn()

	rated, err := h.recipeService.Create(c.Request.Context(), callerFrom(c), w, image)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.render(c, http.StatusCreated, rated)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	w, image, closeFn, ok := bindRecipeWrite(c)
	if !ok {
		return
	}
	defer closeFn()

	rated, err := h.recipeService.Update(c.Request.Context(), callerFrom(c), id, w, image)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.render(c, http.StatusOK, rated)
}

func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p types.RecipePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		handleBindError(c, err)
		return
	}

	rated, err := h.recipeService.Patch(c.Request.Context(), callerFrom(c), id, &p)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.render(c, http.StatusOK, rated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ListRatings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ratings, err := h.recipeService.Ratings(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Ratings(ratings))
}

// RateRecipe stores the caller's rating, replacing an earlier one.
func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	var req types.RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), callerFrom(c), req.RecipeID, req.Rating)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	metrics.RecordRating()
	c.JSON(http.StatusOK, presenterFor(c, h.images).Rating(rating))
}
