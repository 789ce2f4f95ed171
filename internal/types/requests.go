package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for subsequent requests.
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserView `json:"user"`
}

// RegisterRequest is accepted as JSON or multipart; the avatar file travels
// as the "avatar" form part.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=254"`
	Username string `json:"username" form:"username" binding:"required,max=50"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UpdateMeRequest is a partial update of the caller's own account.
type UpdateMeRequest struct {
	Email        *string `json:"email" form:"email" binding:"omitempty,email,max=254"`
	Username     *string `json:"username" form:"username" binding:"omitempty,min=1,max=50"`
	Password     *string `json:"password" form:"password" binding:"omitempty,min=1"`
	RemoveAvatar bool    `json:"remove_avatar" form:"remove_avatar"`
}

// CategoryWrite creates or replaces a category.
type CategoryWrite struct {
	Name        string `json:"name" form:"name" binding:"required,max=50"`
	Description string `json:"description" form:"description"`
	Image       string `json:"image" form:"image" binding:"max=255"`
}

// IngredientWrite refers to its category by id.
type IngredientWrite struct {
	Name     string `json:"name" binding:"required,max=50"`
	Quantity string `json:"quantity" binding:"max=50"`
	Category *uint  `json:"category"`
}

// NutritionFields are the free-text nutrition values.
type NutritionFields struct {
	Calories string `json:"calories" binding:"max=50"`
	Protein  string `json:"protein" binding:"max=50"`
	Fat      string `json:"fat" binding:"max=50"`
	Carbs    string `json:"carbs" binding:"max=50"`
}

// NutritionWrite attaches nutrition values to a recipe.
type NutritionWrite struct {
	Recipe uint `json:"recipe" binding:"required"`
	NutritionFields
}

// CookingStepWrite is one step of a recipe write.
type CookingStepWrite struct {
	StepNumber  uint   `json:"step_number" binding:"required,min=1"`
	Description string `json:"description" binding:"required"`
}

// RecipeWrite is the flat write view of a recipe: category and ingredients
// are bare ids. created_by is never accepted from the client.
type RecipeWrite struct {
	Name         string             `json:"name" binding:"required,max=100"`
	Description  string             `json:"description"`
	Image        string             `json:"image" binding:"max=255"`
	TimeRequired string             `json:"time_required" binding:"required,max=50"`
	Servings     uint               `json:"servings" binding:"required,min=1"`
	Cuisine      string             `json:"cuisine" binding:"max=50"`
	Category     *uint              `json:"category"`
	Ingredients  []uint             `json:"ingredients"`
	Nutrition    *NutritionFields   `json:"nutrition" binding:"omitempty"`
	Steps        []CookingStepWrite `json:"steps" binding:"omitempty,dive"`
}

// RecipeForm is the multipart variant of RecipeWrite. Nested values travel
// as JSON-encoded form fields and the picture as the "image" file part.
type RecipeForm struct {
	Name         string `form:"name" binding:"required,max=100"`
	Description  string `form:"description"`
	TimeRequired string `form:"time_required" binding:"required,max=50"`
	Servings     uint   `form:"servings" binding:"required,min=1"`
	Cuisine      string `form:"cuisine" binding:"max=50"`
	Category     *uint  `form:"category"`
	Ingredients  []uint `form:"ingredients"`
	Nutrition    string `form:"nutrition"`
	Steps        string `form:"steps"`
}

// ToWrite decodes the nested JSON fields.
func (f *RecipeForm) ToWrite() (*RecipeWrite, error) {
	w := &RecipeWrite{
		Name:         f.Name,
		Description:  f.Description,
		TimeRequired: f.TimeRequired,
		Servings:     f.Servings,
		Cuisine:      f.Cuisine,
		Category:     f.Category,
		Ingredients:  f.Ingredients,
	}
	if s := strings.TrimSpace(f.Nutrition); s != "" {
		w.Nutrition = &NutritionFields{}
		if err := json.Unmarshal([]byte(s), w.Nutrition); err != nil {
			return nil, fmt.Errorf("nutrition: %w", err)
		}
	}
	if s := strings.TrimSpace(f.Steps); s != "" {
		if err := json.Unmarshal([]byte(s), &w.Steps); err != nil {
			return nil, fmt.Errorf("steps: %w", err)
		}
	}
	return w, nil
}

// RecipePatch changes only the fields present in the body.
type RecipePatch struct {
	Name         *string             `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string             `json:"description"`
	Image        *string             `json:"image" binding:"omitempty,min=1,max=255"`
	TimeRequired *string             `json:"time_required" binding:"omitempty,min=1,max=50"`
	Servings     *uint               `json:"servings" binding:"omitempty,min=1"`
	Cuisine      *string             `json:"cuisine" binding:"omitempty,max=50"`
	Category     *uint               `json:"category"`
	Ingredients  *[]uint             `json:"ingredients"`
	Nutrition    *NutritionFields    `json:"nutrition" binding:"omitempty"`
	Steps        *[]CookingStepWrite `json:"steps" binding:"omitempty,dive"`
}

// SearchRecipesRequest lists ingredient names; a recipe matches when it uses any of them.
type SearchRecipesRequest struct {
	Ingredients []string `json:"ingredients"`
}

// WishlistAddRequest is the body of POST /wishlist/add.
type WishlistAddRequest struct {
	RecipeID uint `json:"recipe_id" binding:"required"`
}

// RateRecipeRequest is the body of POST /recipes/rate.
type RateRecipeRequest struct {
	RecipeID uint `json:"recipe_id" binding:"required"`
	Rating   int  `json:"rating" binding:"required,min=1,max=5"`
}
