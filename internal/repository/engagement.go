package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWishlistRepository implements WishlistRepository. The unique index on
// (user_id, recipe_id) resolves concurrent adds.
type GormWishlistRepository struct {
	db *gorm.DB
}

func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

func (r *GormWishlistRepository) AddIfAbsent(ctx context.Context, userID, recipeID uint) (*models.Wishlist, bool, error) {
	db := r.db.WithContext(ctx)

	entry := models.Wishlist{UserID: userID, RecipeID: recipeID}
	res := db.Omit("User", "Recipe").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(&entry)
	if res.Error != nil {
		return nil, false, fmt.Errorf("gorm: add recipe %d to wishlist of user %d: %w", recipeID, userID, translate(res.Error))
	}
	created := res.RowsAffected > 0

	var stored models.Wishlist
	err := withWishlistRecipe(db).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&stored).Error
	if err != nil {
		return nil, false, translate(err)
	}
	return &stored, created, nil
}

func (r *GormWishlistRepository) GetByID(ctx context.Context, id uint) (*models.Wishlist, error) {
	var entry models.Wishlist
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *GormWishlistRepository) ListByUser(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	var entries []models.Wishlist
	err := withWishlistRecipe(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (r *GormWishlistRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Wishlist{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func withWishlistRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Recipe.Category").
		Preload("Recipe.Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.id ASC")
		}).
		Preload("Recipe.CreatedBy").
		Preload("Recipe.Nutrition").
		Preload("Recipe.Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC, id ASC")
		})
}

// GormRatingRepository implements RatingRepository. The unique index on
// (user_id, recipe_id) turns a second rating into an update.
type GormRatingRepository struct {
	db *gorm.DB
}

func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

func (r *GormRatingRepository) Upsert(ctx context.Context, userID, recipeID uint, rating int) (*models.RecipeRating, error) {
	db := r.db.WithContext(ctx)

	now := time.Now()
	record := models.RecipeRating{
		UserID:    userID,
		RecipeID:  recipeID,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: rate recipe %d by user %d: %w", recipeID, userID, translate(err))
	}

	var stored models.RecipeRating
	err = db.Preload("User").
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&stored).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *GormRatingRepository) ListByRecipe(ctx context.Context, recipeID uint) ([]models.RecipeRating, error) {
	var ratings []models.RecipeRating
	err := r.db.WithContext(ctx).Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("updated_at DESC, id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, translate(err)
	}
	return ratings, nil
}

func (r *GormRatingRepository) Stats(ctx context.Context, recipeIDs []uint) (map[uint]models.RatingStats, error) {
	stats := make(map[uint]models.RatingStats, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return stats, nil
	}

	var rows []models.RatingStats
	err := r.db.WithContext(ctx).Model(&models.RecipeRating{}).
		Select("recipe_id, SUM(rating) AS total, COUNT(*) AS count").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: aggregate ratings: %w", translate(err))
	}
	for _, row := range rows {
		stats[row.RecipeID] = row
	}
	return stats, nil
}
