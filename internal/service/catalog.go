package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

// CatalogService handles categories, ingredients and nutrition records.
type CatalogService struct {
	categories  repository.CategoryRepository
	ingredients repository.IngredientRepository
	nutritions  repository.NutritionRepository
	recipes     repository.RecipeRepository
	images      storage.Store
}

func NewCatalogService(repos *repository.Repositories, images storage.Store) *CatalogService {
	return &CatalogService{
		categories:  repos.Categories,
		ingredients: repos.Ingredients,
		nutritions:  repos.Nutritions,
		recipes:     repos.Recipes,
		images:      images,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "category")
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("category", id)
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory stores a category. An uploaded image wins over w.Image.
func (s *CatalogService) CreateCategory(ctx context.Context, caller *Caller, w *types.CategoryWrite, image *Upload) (*models.Category, error) {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return nil, err
	}
	category := &models.Category{}
	if err := s.applyCategory(ctx, category, w, image); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if image != nil {
			discardImage(ctx, s.images, category.Image)
		}
		return nil, mapRepoError(err, "category")
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, caller *Caller, id uint, w *types.CategoryWrite, image *Upload) (*models.Category, error) {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return nil, err
	}
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	previousImage := category.Image
	if err := s.applyCategory(ctx, category, w, image); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if image != nil {
			discardImage(ctx, s.images, category.Image)
		}
		return nil, mapRepoError(err, "category")
	}
	if image != nil {
		discardImage(ctx, s.images, previousImage)
	}
	return category, nil
}

func (s *CatalogService) applyCategory(ctx context.Context, category *models.Category, w *types.CategoryWrite, image *Upload) error {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return validationError("name is required")
	}
	if image != nil {
		objectPath, err := saveImage(ctx, s.images, storage.DirCategories, image)
		if err != nil {
			return err
		}
		category.Image = objectPath
	} else {
		path, err := imagePath(category.Image, w.Image)
		if err != nil {
			return err
		}
		category.Image = path
	}
	category.Name = name
	category.Description = w.Description
	return nil
}

// DeleteCategory removes the category; its recipes and ingredients keep
// existing without one.
func (s *CatalogService) DeleteCategory(ctx context.Context, caller *Caller, id uint) error {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("category", id)
		}
		return mapRepoError(err, "category")
	}
	return nil
}

func (s *CatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "ingredient")
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("ingredient", id)
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, caller *Caller, w *types.IngredientWrite) (*models.Ingredient, error) {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return nil, err
	}
	ingredient := &models.Ingredient{}
	if err := s.applyIngredient(ctx, ingredient, w); err != nil {
		return nil, err
	}
	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		return nil, mapRepoError(err, "ingredient")
	}
	return ingredient, nil
}

func (s *CatalogService) UpdateIngredient(ctx context.Context, caller *Caller, id uint, w *types.IngredientWrite) (*models.Ingredient, error) {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return nil, err
	}
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyIngredient(ctx, ingredient, w); err != nil {
		return nil, err
	}
	if err := s.ingredients.Update(ctx, ingredient); err != nil {
		return nil, mapRepoError(err, "ingredient")
	}
	return ingredient, nil
}

func (s *CatalogService) applyIngredient(ctx context.Context, ingredient *models.Ingredient, w *types.IngredientWrite) error {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return validationError("name is required")
	}
	if w.Category != nil {
		if _, err := s.categories.GetByID(ctx, *w.Category); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return validationError("category %d does not exist", *w.Category)
			}
			return err
		}
	}
	ingredient.Name = name
	ingredient.Quantity = w.Quantity
	ingredient.CategoryID = w.Category
	ingredient.Category = nil
	return nil
}

// DeleteIngredient removes the ingredient from every recipe using it.
func (s *CatalogService) DeleteIngredient(ctx context.Context, caller *Caller, id uint) error {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return err
	}
	if err := s.ingredients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("ingredient", id)
		}
		return mapRepoError(err, "ingredient")
	}
	return nil
}

func (s *CatalogService) ListNutritions(ctx context.Context) ([]models.Nutrition, error) {
	nutritions, err := s.nutritions.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "nutrition")
	}
	return nutritions, nil
}

func (s *CatalogService) GetNutrition(ctx context.Context, id uint) (*models.Nutrition, error) {
	nutrition, err := s.nutritions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("nutrition", id)
		}
		return nil, err
	}
	return nutrition, nil
}

// CreateNutrition attaches nutrition values to a recipe. A recipe has at most
// one nutrition record.
func (s *CatalogService) CreateNutrition(ctx context.Context, caller *Caller, w *types.NutritionWrite) (*models.Nutrition, error) {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return nil, err
	}
	nutrition := &models.Nutrition{}
	if err := s.applyNutrition(ctx, nutrition, w); err != nil {
		return nil, err
	}
	if err := s.nutritions.Create(ctx, nutrition); err != nil {
		return nil, mapRepoError(err, "nutrition for this recipe")
	}
	return nutrition, nil
}

func (s *CatalogService) UpdateNutrition(ctx context.Context, caller *Caller, id uint, w *types.NutritionWrite) (*models.Nutrition, error) {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return nil, err
	}
	nutrition, err := s.GetNutrition(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyNutrition(ctx, nutrition, w); err != nil {
		return nil, err
	}
	if err := s.nutritions.Update(ctx, nutrition); err != nil {
		return nil, mapRepoError(err, "nutrition for this recipe")
	}
	return nutrition, nil
}

func (s *CatalogService) applyNutrition(ctx context.Context, nutrition *models.Nutrition, w *types.NutritionWrite) error {
	if w.Recipe == 0 {
		return validationError("recipe is required")
	}
	exists, err := s.recipes.Exists(ctx, w.Recipe)
	if err != nil {
		return err
	}
	if !exists {
		return validationError("recipe %d does not exist", w.Recipe)
	}
	nutrition.RecipeID = w.Recipe
	nutrition.Calories = w.Calories
	nutrition.Protein = w.Protein
	nutrition.Fat = w.Fat
	nutrition.Carbs = w.Carbs
	return nil
}

func (s *CatalogService) DeleteNutrition(ctx context.Context, caller *Caller, id uint) error {
	if err := Authorize(caller, OpCatalogWrite, nil); err != nil {
		return err
	}
	if err := s.nutritions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("nutrition", id)
		}
		return mapRepoError(err, "nutrition")
	}
	return nil
}
