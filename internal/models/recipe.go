package models

import (
	"strconv"
	"time"
)

// Recipe is the aggregate root of the catalog. Steps, nutrition and ratings
// live and die with it; category, ingredients and creator do not.
type Recipe struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Image        string         `gorm:"size:255;not null" json:"image"`
	TimeRequired string         `gorm:"size:50;not null" json:"time_required"`
	Servings     uint           `gorm:"not null" json:"servings"`
	Cuisine      string         `gorm:"size:50" json:"cuisine"`
	CategoryID   *uint          `gorm:"index" json:"category_id"`
	Category     *Category      `gorm:"constraint:OnDelete:SET NULL;" json:"category,omitempty"`
	Ingredients  []Ingredient   `gorm:"many2many:recipe_ingredients;" json:"ingredients"`
	CreatedByID  *uint          `gorm:"index" json:"created_by_id"`
	CreatedBy    *User          `gorm:"constraint:OnDelete:SET NULL;" json:"created_by,omitempty"`
	Nutrition    *Nutrition     `gorm:"constraint:OnDelete:CASCADE;" json:"nutrition,omitempty"`
	Steps        []CookingStep  `gorm:"constraint:OnDelete:CASCADE;" json:"steps"`
	Ratings      []RecipeRating `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// IsCreatedBy reports whether userID is the recorded creator.
func (r *Recipe) IsCreatedBy(userID uint) bool {
	return r.CreatedByID != nil && *r.CreatedByID == userID
}

// CookingStep is one numbered instruction. Steps are read in ascending
// StepNumber order.
type CookingStep struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	RecipeID    uint   `gorm:"index;not null" json:"recipe_id"`
	StepNumber  uint   `gorm:"not null" json:"step_number"`
	Description string `gorm:"type:text;not null" json:"description"`
}

// Nutrition values are free text; units are whatever the author typed.
type Nutrition struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RecipeID uint   `gorm:"uniqueIndex;not null" json:"recipe_id"`
	Calories string `gorm:"size:50" json:"calories"`
	Protein  string `gorm:"size:50" json:"protein"`
	Fat      string `gorm:"size:50" json:"fat"`
	Carbs    string `gorm:"size:50" json:"carbs"`
}

// RatingStats is the aggregate of all ratings of one recipe.
type RatingStats struct {
	RecipeID uint
	Total    int64
	Count    int64
}

// Average returns the mean rating rounded to one decimal place, or 0 when
// the recipe has not been rated.
func (s RatingStats) Average() float64 {
	return AverageRating(s.Total, s.Count)
}

// AverageRating rounds total/count to one decimal. Exact ties go to the
// even digit, so 9/4 is 2.2 and 11/4 is 2.8.
func AverageRating(total, count int64) float64 {
	if count <= 0 {
		return 0
	}
	mean := float64(total) / float64(count)
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(mean, 'f', 1, 64), 64)
	return rounded
}
