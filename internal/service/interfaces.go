package service

import (
	"context"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest, avatar *Upload) (*models.User, error)
	Me(ctx context.Context, caller *Caller) (*models.User, error)
	UpdateMe(ctx context.Context, caller *Caller, req *types.UpdateMeRequest, avatar *Upload) (*models.User, error)
	DeleteMe(ctx context.Context, caller *Caller) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context) ([]RatedRecipe, error)
	ByCategory(ctx context.Context, category string) ([]RatedRecipe, error)
	Search(ctx context.Context, ingredientNames []string) ([]RatedRecipe, error)
	Get(ctx context.Context, id uint) (*RatedRecipe, error)
	Create(ctx context.Context, caller *Caller, w *types.RecipeWrite, image *Upload) (*RatedRecipe, error)
	Update(ctx context.Context, caller *Caller, id uint, w *types.RecipeWrite, image *Upload) (*RatedRecipe, error)
	Patch(ctx context.Context, caller *Caller, id uint, p *types.RecipePatch) (*RatedRecipe, error)
	Delete(ctx context.Context, caller *Caller, id uint) error
	Ratings(ctx context.Context, id uint) ([]models.RecipeRating, error)
}

// ICatalogService defines the interface for category, ingredient and nutrition operations
type ICatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, caller *Caller, w *types.CategoryWrite, image *Upload) (*models.Category, error)
	UpdateCategory(ctx context.Context, caller *Caller, id uint, w *types.CategoryWrite, image *Upload) (*models.Category, error)
	DeleteCategory(ctx context.Context, caller *Caller, id uint) error

	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, caller *Caller, w *types.IngredientWrite) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, caller *Caller, id uint, w *types.IngredientWrite) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, caller *Caller, id uint) error

	ListNutritions(ctx context.Context) ([]models.Nutrition, error)
	GetNutrition(ctx context.Context, id uint) (*models.Nutrition, error)
	CreateNutrition(ctx context.Context, caller *Caller, w *types.NutritionWrite) (*models.Nutrition, error)
	UpdateNutrition(ctx context.Context, caller *Caller, id uint, w *types.NutritionWrite) (*models.Nutrition, error)
	DeleteNutrition(ctx context.Context, caller *Caller, id uint) error
}

// IWishlistService defines the interface for wishlist operations
type IWishlistService interface {
	Mine(ctx context.Context, caller *Caller) ([]WishlistEntry, error)
	Add(ctx context.Context, caller *Caller, recipeID uint) (*WishlistEntry, bool, error)
	Remove(ctx context.Context, caller *Caller, id uint) error
}

// IRatingService defines the interface for rating operations
type IRatingService interface {
	Rate(ctx context.Context, caller *Caller, recipeID uint, rating int) (*models.RecipeRating, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IUserService     = (*UserService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ ICatalogService  = (*CatalogService)(nil)
	_ IWishlistService = (*WishlistService)(nil)
	_ IRatingService   = (*RatingService)(nil)
)

// Services bundles every service the HTTP layer needs.
type Services struct {
	Auth      IAuthService
	Users     IUserService
	Recipes   IRecipeService
	Catalog   ICatalogService
	Wishlists IWishlistService
	Ratings   IRatingService
}
