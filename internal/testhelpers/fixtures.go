package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain password of users made by CreateTestUser.
const TestPassword = "testpassword123"

// CreateTestUser stores an active user named after username.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Description: name + " recipes"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, Quantity: "1"}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// RecipeOption customises CreateTestRecipe.
type RecipeOption func(*models.Recipe)

func WithCategory(c *models.Category) RecipeOption {
	return func(r *models.Recipe) { r.CategoryID = &c.ID }
}

func WithCreator(u *models.User) RecipeOption {
	return func(r *models.Recipe) { r.CreatedByID = &u.ID }
}

func WithIngredients(ingredients ...*models.Ingredient) RecipeOption {
	return func(r *models.Recipe) {
		for _, i := range ingredients {
			r.Ingredients = append(r.Ingredients, *i)
		}
	}
}

func WithCreatedAt(at time.Time) RecipeOption {
	return func(r *models.Recipe) { r.CreatedAt = at }
}

// WithDetails attaches two steps and a nutrition record.
func WithDetails() RecipeOption {
	return func(r *models.Recipe) {
		r.Steps = []models.CookingStep{
			{StepNumber: 2, Description: "Bake"},
			{StepNumber: 1, Description: "Mix"},
		}
		r.Nutrition = &models.Nutrition{Calories: "350 kcal", Protein: "6 g", Fat: "12 g", Carbs: "50 g"}
	}
}

// CreateTestRecipe stores a recipe; ingredients are linked, not re-created.
func CreateTestRecipe(t *testing.T, db *gorm.DB, name string, opts ...RecipeOption) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:         name,
		Description:  "A test recipe",
		Image:        "recipes/" + name + ".jpg",
		TimeRequired: "30 min",
		Servings:     4,
		Cuisine:      "Test",
	}
	for _, opt := range opts {
		opt(recipe)
	}
	if err := db.Omit("Ingredients.*").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

// RateTestRecipe stores a rating row directly.
func RateTestRecipe(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe, rating int) {
	t.Helper()
	if err := db.Create(&models.RecipeRating{UserID: user.ID, RecipeID: recipe.ID, Rating: rating}).Error; err != nil {
		t.Fatalf("failed to rate test recipe: %v", err)
	}
}
