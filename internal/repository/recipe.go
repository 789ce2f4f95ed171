package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"gorm.io/gorm"
)

// recencyOrder breaks ties between recipes showing the same average.
const recencyOrder = "recipes.created_at DESC, recipes.id DESC"

// recipeRank is one recipe's rating aggregate as seen by the listing query.
type recipeRank struct {
	ID    uint
	Total int64
	Count int64
}

// GormRecipeRepository implements RecipeRepository.
type GormRecipeRepository struct {
	db *gorm.DB
}

func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// withDetails preloads everything the read view embeds.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.id ASC")
		}).
		Preload("CreatedBy").
		Preload("Nutrition").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC, id ASC")
		})
}

func (r *GormRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).
		Omit("Ingredients.*", "Category", "CreatedBy").
		Create(recipe).Error
	if err != nil {
		return fmt.Errorf("gorm: create recipe %q: %w", recipe.Name, translate(err))
	}
	return nil
}

func (r *GormRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *GormRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *GormRecipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	db := r.db.WithContext(ctx)

	query := db.Table("recipes").
		Select("recipes.id AS id, COALESCE(SUM(recipe_ratings.rating), 0) AS total, COUNT(recipe_ratings.recipe_id) AS count").
		Joins("LEFT JOIN recipe_ratings ON recipe_ratings.recipe_id = recipes.id")

	if filter.CategoryName != "" {
		query = query.Where("recipes.category_id IN (?)",
			db.Table("categories").Select("categories.id").Where("categories.name = ?", filter.CategoryName))
	}
	if len(filter.IngredientNames) > 0 {
		// At least one of the names, not all of them.
		query = query.Where("recipes.id IN (?)",
			db.Table("recipe_ingredients").
				Select("recipe_ingredients.recipe_id").
				Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
				Where("ingredients.name IN ?", filter.IngredientNames))
	}
	if filter.CreatedByID != nil {
		query = query.Where("recipes.created_by_id = ?", *filter.CreatedByID)
	}

	var ranks []recipeRank
	err := query.
		Group("recipes.id, recipes.created_at").
		Order(recencyOrder).
		Scan(&ranks).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: rank recipes: %w", translate(err))
	}
	if len(ranks) == 0 {
		return []models.Recipe{}, nil
	}

	// Ranked by the same rounded average the read view shows; SQL ROUND
	// disagrees with it on exact ties.
	sort.SliceStable(ranks, func(i, j int) bool {
		return models.AverageRating(ranks[i].Total, ranks[i].Count) >
			models.AverageRating(ranks[j].Total, ranks[j].Count)
	})
	ids := make([]uint, 0, len(ranks))
	for _, rank := range ranks {
		ids = append(ids, rank.ID)
	}

	var recipes []models.Recipe
	if err := withDetails(db).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("gorm: load recipes: %w", translate(err))
	}

	byID := make(map[uint]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}
	ordered := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			ordered = append(ordered, recipe)
		}
	}
	return ordered, nil
}

func (r *GormRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, replaceSteps bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(recipe).
			Select("Name", "Description", "Image", "TimeRequired", "Servings", "Cuisine", "CategoryID", "UpdatedAt").
			Omit("Category", "CreatedBy", "Ingredients", "Nutrition", "Steps").
			Updates(recipe)
		if res.Error != nil {
			return fmt.Errorf("gorm: update recipe %d: %w", recipe.ID, translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		ingredients := recipe.Ingredients
		if ingredients == nil {
			ingredients = []models.Ingredient{}
		}
		if err := tx.Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
			return fmt.Errorf("gorm: replace ingredients of recipe %d: %w", recipe.ID, translate(err))
		}

		if recipe.Nutrition != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Nutrition{}).Error; err != nil {
				return translate(err)
			}
			nutrition := *recipe.Nutrition
			nutrition.ID = 0
			nutrition.RecipeID = recipe.ID
			if err := tx.Create(&nutrition).Error; err != nil {
				return fmt.Errorf("gorm: replace nutrition of recipe %d: %w", recipe.ID, translate(err))
			}
			recipe.Nutrition = &nutrition
		}

		if replaceSteps {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CookingStep{}).Error; err != nil {
				return translate(err)
			}
			for i := range recipe.Steps {
				recipe.Steps[i].ID = 0
				recipe.Steps[i].RecipeID = recipe.ID
			}
			if len(recipe.Steps) > 0 {
				if err := tx.Create(&recipe.Steps).Error; err != nil {
					return fmt.Errorf("gorm: replace steps of recipe %d: %w", recipe.ID, translate(err))
				}
			}
		}
		return nil
	})
}

func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", id).Error; err != nil {
			return translate(err)
		}
		for _, dependent := range []interface{}{
			&models.CookingStep{},
			&models.Nutrition{},
			&models.RecipeRating{},
			&models.Wishlist{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return translate(err)
			}
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
