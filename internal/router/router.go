package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Amaytushin/Ratatouille-tusul/config"
	"github.com/Amaytushin/Ratatouille-tusul/internal/api"
	"github.com/Amaytushin/Ratatouille-tusul/internal/metrics"
	"github.com/Amaytushin/Ratatouille-tusul/internal/middleware"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	DB       *gorm.DB
	Redis    redis.Cmdable // nil disables the write rate limiter
	Services *service.Services
	Users    repository.UserRepository
	Images   storage.Store
}

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	health := api.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.HealthCheck)
	router.GET("/metrics", metrics.Handler())

	// Uploaded files are served by the API only for the local backend.
	if local, ok := deps.Images.(*storage.LocalStore); ok && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(strings.TrimSuffix(cfg.MediaURL, "/"), local.Root())
	}

	writeLimiter := middleware.NewWriteRateLimiter(deps.Redis, cfg.RateLimitWritesPerHour)
	guards := []gin.HandlerFunc{
		middleware.AuthMiddleware(deps.Services.Auth),
		middleware.RequireActiveUser(deps.Users),
		writeLimiter.RateLimitMiddleware(),
	}

	v1 := router.Group("/api/v1")

	api.NewAuthHandler(deps.Services.Auth, deps.Images).RegisterRoutes(v1)
	api.NewUserHandler(deps.Services.Users, deps.Images).RegisterRoutes(v1, guards)
	api.NewRecipeHandler(deps.Services.Recipes, deps.Services.Ratings, deps.Images).RegisterRoutes(v1, guards)
	api.NewCatalogHandler(deps.Services.Catalog, deps.Images).RegisterRoutes(v1, guards)
	api.NewWishlistHandler(deps.Services.Wishlists, deps.Images).RegisterRoutes(v1, guards)

	return router
}
