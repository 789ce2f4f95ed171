package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

// CatalogHandler serves categories, ingredients and nutrition records.
type CatalogHandler struct {
	catalogService service.ICatalogService
	images         types.ImageURLer
}

func NewCatalogHandler(catalogService service.ICatalogService, images types.ImageURLer) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, images: images}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup, guards []gin.HandlerFunc) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", protect(guards, h.CreateCategory)...)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", protect(guards, h.UpdateCategory)...)
		categories.DELETE("/:id", protect(guards, h.DeleteCategory)...)
	}

	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", protect(guards, h.CreateIngredient)...)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.PUT("/:id", protect(guards, h.UpdateIngredient)...)
		ingredients.DELETE("/:id", protect(guards, h.DeleteIngredient)...)
	}

	nutritions := router.Group("/nutritions")
	{
		nutritions.GET("", h.ListNutritions)
		nutritions.POST("", protect(guards, h.CreateNutrition)...)
		nutritions.GET("/:id", h.GetNutrition)
		nutritions.PUT("/:id", protect(guards, h.UpdateNutrition)...)
		nutritions.DELETE("/:id", protect(guards, h.DeleteNutrition)...)
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Categories(categories))
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Category(category))
}

// bindCategory accepts JSON, or a multipart form with an optional "image" file.
func bindCategory(c *gin.Context) (*types.CategoryWrite, *service.Upload, func(), bool) {
	var w types.CategoryWrite
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&w); err != nil {
			handleBindError(c, err)
			return nil, nil, nil, false
		}
		return &w, nil, func() {}, true
	}

	if err := c.ShouldBind(&w); err != nil {
		handleBindError(c, err)
		return nil, nil, nil, false
	}
	upload, closeFn, err := formUpload(c, "image")
	if err != nil {
		handleBindError(c, err)
		return nil, nil, nil, false
	}
	return &w, upload, closeFn, true
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	w, image, closeFn, ok := bindCategory(c)
	if !ok {
		return
	}
	defer closeFn()

	category, err := h.catalogService.CreateCategory(c.Request.Context(), callerFrom(c), w, image)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenterFor(c, h.images).Category(category))
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	w, image, closeFn, ok := bindCategory(c)
	if !ok {
		return
	}
	defer closeFn()

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), callerFrom(c), id, w, image)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Category(category))
}

// DeleteCategory removes the category; its recipes stay uncategorized.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(c.Request.Context(), callerFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Ingredients(ingredients))
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Ingredient(ingredient))
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var w types.IngredientWrite
	if err := c.ShouldBindJSON(&w); err != nil {
		handleBindError(c, err)
		return
	}
	ingredient, err := h.catalogService.CreateIngredient(c.Request.Context(), callerFrom(c), &w)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenterFor(c, h.images).Ingredient(ingredient))
}

func (h *CatalogHandler) UpdateIngredient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var w types.IngredientWrite
	if err := c.ShouldBindJSON(&w); err != nil {
		handleBindError(c, err)
		return
	}
	ingredient, err := h.catalogService.UpdateIngredient(c.Request.Context(), callerFrom(c), id, &w)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Ingredient(ingredient))
}

func (h *CatalogHandler) DeleteIngredient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteIngredient(c.Request.Context(), callerFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListNutritions(c *gin.Context) {
	nutritions, err := h.catalogService.ListNutritions(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Nutritions(nutritions))
}

func (h *CatalogHandler) GetNutrition(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	nutrition, err := h.catalogService.GetNutrition(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Nutrition(nutrition))
}

func (h *CatalogHandler) CreateNutrition(c *gin.Context) {
	var w types.NutritionWrite
	if err := c.ShouldBindJSON(&w); err != nil {
		handleBindError(c, err)
		return
	}
	nutrition, err := h.catalogService.CreateNutrition(c.Request.Context(), callerFrom(c), &w)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenterFor(c, h.images).Nutrition(nutrition))
}

func (h *CatalogHandler) UpdateNutrition(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var w types.NutritionWrite
	if err := c.ShouldBindJSON(&w); err != nil {
		handleBindError(c, err)
		return
	}
	nutrition, err := h.catalogService.UpdateNutrition(c.Request.Context(), callerFrom(c), id, &w)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenterFor(c, h.images).Nutrition(nutrition))
}

func (h *CatalogHandler) DeleteNutrition(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteNutrition(c.Request.Context(), callerFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
