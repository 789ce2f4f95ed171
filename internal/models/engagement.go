package models

import "time"

// Wishlist marks a recipe saved by a user. One row per (user, recipe).
type Wishlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_recipe" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_recipe;index" json:"recipe_id"`
	Recipe    *Recipe   `gorm:"constraint:OnDelete:CASCADE;" json:"recipe,omitempty"`
}

// RecipeRating is a user's score for a recipe. Rating the same recipe again
// overwrites the previous score.
type RecipeRating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_user_recipe" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_rating_user_recipe;index" json:"recipe_id"`
	Rating    int       `gorm:"not null;check:chk_recipe_ratings_rating,rating >= 1 AND rating <= 5" json:"rating"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// All lists every persisted model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Ingredient{},
		&Recipe{},
		&CookingStep{},
		&Nutrition{},
		&Wishlist{},
		&RecipeRating{},
	}
}
