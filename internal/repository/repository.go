// Package repository is the data-access layer. Each entity has an interface
// used by the services and a gorm implementation backed by postgres or sqlite.
package repository

import (
	"context"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"gorm.io/gorm"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user, clears created_by on their recipes and drops
	// their wishlist entries and ratings.
	Delete(ctx context.Context, id uint) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete clears the category on recipes and ingredients before removing it.
	Delete(ctx context.Context, id uint) error
}

// IngredientRepository persists ingredients.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) error
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	// GetByIDs returns the ingredients found; callers compare lengths to detect missing ids.
	GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error)
	List(ctx context.Context) ([]models.Ingredient, error)
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, id uint) error
}

// NutritionRepository persists nutrition records, at most one per recipe.
type NutritionRepository interface {
	Create(ctx context.Context, nutrition *models.Nutrition) error
	GetByID(ctx context.Context, id uint) (*models.Nutrition, error)
	List(ctx context.Context) ([]models.Nutrition, error)
	Update(ctx context.Context, nutrition *models.Nutrition) error
	Delete(ctx context.Context, id uint) error
}

// RecipeFilter narrows a recipe listing. Zero value lists everything.
type RecipeFilter struct {
	// CategoryName matches the category name exactly when non-empty.
	CategoryName string
	// IngredientNames keeps recipes that use at least one of the names.
	IngredientNames []string
	// CreatedByID keeps recipes of one author.
	CreatedByID *uint
}

// RecipeRepository persists recipes together with their steps, nutrition and
// ingredient links.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// List returns matching recipes ordered by rounded average rating, then
	// newest first.
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	// Update writes the scalar columns and replaces ingredients. Nutrition and
	// steps are replaced only when non-nil on the recipe.
	Update(ctx context.Context, recipe *models.Recipe, replaceSteps bool) error
	// Delete removes the recipe with its steps, nutrition, ratings, wishlist
	// entries and ingredient links.
	Delete(ctx context.Context, id uint) error
}

// WishlistRepository persists saved recipes.
type WishlistRepository interface {
	// AddIfAbsent inserts the pair unless it exists and returns the stored
	// row. created is false when the row was already there.
	AddIfAbsent(ctx context.Context, userID, recipeID uint) (entry *models.Wishlist, created bool, err error)
	GetByID(ctx context.Context, id uint) (*models.Wishlist, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Wishlist, error)
	Delete(ctx context.Context, id uint) error
}

// RatingRepository persists ratings and computes their aggregates.
type RatingRepository interface {
	// Upsert stores the user's rating for the recipe, overwriting any earlier one.
	Upsert(ctx context.Context, userID, recipeID uint, rating int) (*models.RecipeRating, error)
	ListByRecipe(ctx context.Context, recipeID uint) ([]models.RecipeRating, error)
	// Stats returns one entry per rated recipe among recipeIDs.
	Stats(ctx context.Context, recipeIDs []uint) (map[uint]models.RatingStats, error)
}

// Repositories bundles the gorm implementations over one connection.
type Repositories struct {
	Users       UserRepository
	Categories  CategoryRepository
	Ingredients IngredientRepository
	Nutritions  NutritionRepository
	Recipes     RecipeRepository
	Wishlists   WishlistRepository
	Ratings     RatingRepository
}

// New wires every gorm repository to db.
func New(db *gorm.DB) *Repositories {
	if db == nil {
		panic("repository: database connection cannot be nil")
	}
	return &Repositories{
		Users:       NewGormUserRepository(db),
		Categories:  NewGormCategoryRepository(db),
		Ingredients: NewGormIngredientRepository(db),
		Nutritions:  NewGormNutritionRepository(db),
		Recipes:     NewGormRecipeRepository(db),
		Wishlists:   NewGormWishlistRepository(db),
		Ratings:     NewGormRatingRepository(db),
	}
}
