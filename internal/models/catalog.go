package models

// Category groups recipes and ingredients. Deleting a category clears the
// reference on its recipes and ingredients instead of deleting them.
type Category struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Image       string `gorm:"size:255" json:"image"`
}

// Ingredient is shared by any number of recipes.
type Ingredient struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Quantity   string    `gorm:"size:50" json:"quantity"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL;" json:"category,omitempty"`
}
