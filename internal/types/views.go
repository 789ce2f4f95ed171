package types

import "time"

// Read views embed related records; write views in requests.go refer to
// them by id.

type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type IngredientView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category *uint  `json:"category"`
}

type NutritionView struct {
	ID       uint   `json:"id"`
	Recipe   uint   `json:"recipe"`
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Fat      string `json:"fat"`
	Carbs    string `json:"carbs"`
}

type CookingStepView struct {
	ID          uint   `json:"id"`
	StepNumber  uint   `json:"step_number"`
	Description string `json:"description"`
}

type RecipeView struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Image         string            `json:"image"`
	TimeRequired  string            `json:"time_required"`
	Servings      uint              `json:"servings"`
	Cuisine       string            `json:"cuisine"`
	Category      *CategoryView     `json:"category"`
	Ingredients   []IngredientView  `json:"ingredients"`
	Nutrition     *NutritionView    `json:"nutrition"`
	Steps         []CookingStepView `json:"steps"`
	CreatedBy     *UserView         `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	AverageRating float64           `json:"average_rating"`
}

type WishlistView struct {
	ID        uint        `json:"id"`
	User      uint        `json:"user"`
	Recipe    *RecipeView `json:"recipe"`
	CreatedAt time.Time   `json:"created_at"`
}

type RatingView struct {
	ID     uint      `json:"id"`
	User   *UserView `json:"user"`
	Recipe uint      `json:"recipe"`
	Rating int       `json:"rating"`
}
