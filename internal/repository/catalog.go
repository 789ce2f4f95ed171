package repository

import (
	"context"
	"fmt"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository.
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("gorm: create category %q: %w", category.Name, translate(err))
	}
	return nil
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *GormCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(category).
		Select("Name", "Description", "Image").
		Updates(category)
	if res.Error != nil {
		return fmt.Errorf("gorm: update category %d: %w", category.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&models.Ingredient{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GormIngredientRepository implements IngredientRepository.
type GormIngredientRepository struct {
	db *gorm.DB
}

func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(ingredient).Error; err != nil {
		return fmt.Errorf("gorm: create ingredient %q: %w", ingredient.Name, translate(err))
	}
	return nil
}

func (r *GormIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

func (r *GormIngredientRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return []models.Ingredient{}, nil
	}
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, translate(err)
	}
	return ingredients, nil
}

func (r *GormIngredientRepository) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, translate(err)
	}
	return ingredients, nil
}

func (r *GormIngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	res := r.db.WithContext(ctx).Model(ingredient).
		Select("Name", "Quantity", "CategoryID").
		Updates(ingredient)
	if res.Error != nil {
		return fmt.Errorf("gorm: update ingredient %d: %w", ingredient.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormIngredientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", id).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&models.Ingredient{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GormNutritionRepository implements NutritionRepository.
type GormNutritionRepository struct {
	db *gorm.DB
}

func NewGormNutritionRepository(db *gorm.DB) *GormNutritionRepository {
	return &GormNutritionRepository{db: db}
}

func (r *GormNutritionRepository) Create(ctx context.Context, nutrition *models.Nutrition) error {
	if err := r.db.WithContext(ctx).Create(nutrition).Error; err != nil {
		return fmt.Errorf("gorm: create nutrition for recipe %d: %w", nutrition.RecipeID, translate(err))
	}
	return nil
}

func (r *GormNutritionRepository) GetByID(ctx context.Context, id uint) (*models.Nutrition, error) {
	var nutrition models.Nutrition
	if err := r.db.WithContext(ctx).First(&nutrition, id).Error; err != nil {
		return nil, translate(err)
	}
	return &nutrition, nil
}

func (r *GormNutritionRepository) List(ctx context.Context) ([]models.Nutrition, error) {
	var nutritions []models.Nutrition
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&nutritions).Error; err != nil {
		return nil, translate(err)
	}
	return nutritions, nil
}

func (r *GormNutritionRepository) Update(ctx context.Context, nutrition *models.Nutrition) error {
	res := r.db.WithContext(ctx).Model(nutrition).
		Select("RecipeID", "Calories", "Protein", "Fat", "Carbs").
		Updates(nutrition)
	if res.Error != nil {
		return fmt.Errorf("gorm: update nutrition %d: %w", nutrition.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormNutritionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Nutrition{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
