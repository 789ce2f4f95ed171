package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
	"github.com/sirupsen/logrus"
)

// RatedRecipe is a recipe with its computed average rating.
type RatedRecipe struct {
	Recipe        *models.Recipe
	AverageRating float64
}

// RecipeService handles recipe operations
type RecipeService struct {
	recipes     repository.RecipeRepository
	categories  repository.CategoryRepository
	ingredients repository.IngredientRepository
	ratings     repository.RatingRepository
	images      storage.Store
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(repos *repository.Repositories, images storage.Store) *RecipeService {
	return &RecipeService{
		recipes:     repos.Recipes,
		categories:  repos.Categories,
		ingredients: repos.Ingredients,
		ratings:     repos.Ratings,
		images:      images,
	}
}

// List returns every recipe, best rated first.
func (s *RecipeService) List(ctx context.Context) ([]RatedRecipe, error) {
	return s.list(ctx, repository.RecipeFilter{})
}

// ByCategory returns the recipes whose category is named exactly category.
// An empty name lists every recipe.
func (s *RecipeService) ByCategory(ctx context.Context, category string) ([]RatedRecipe, error) {
	return s.list(ctx, repository.RecipeFilter{CategoryName: category})
}

// Search returns the recipes using at least one of the named ingredients.
// No names means no results.
func (s *RecipeService) Search(ctx context.Context, ingredientNames []string) ([]RatedRecipe, error) {
	names := make([]string, 0, len(ingredientNames))
	for _, name := range ingredientNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []RatedRecipe{}, nil
	}
	return s.list(ctx, repository.RecipeFilter{IngredientNames: names})
}

func (s *RecipeService) list(ctx context.Context, filter repository.RecipeFilter) ([]RatedRecipe, error) {
	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err, "recipe")
	}
	return s.rate(ctx, recipes)
}

// rate attaches average ratings to recipes, keeping their order.
func (s *RecipeService) rate(ctx context.Context, recipes []models.Recipe) ([]RatedRecipe, error) {
	ids := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	stats, err := s.ratings.Stats(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err, "rating")
	}
	rated := make([]RatedRecipe, 0, len(recipes))
	for i := range recipes {
		rated = append(rated, RatedRecipe{
			Recipe:        &recipes[i],
			AverageRating: stats[recipes[i].ID].Average(),
		})
	}
	return rated, nil
}

// Get returns one recipe with its details and average rating.
func (s *RecipeService) Get(ctx context.Context, id uint) (*RatedRecipe, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rated, err := s.rate(ctx, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &rated[0], nil
}

func (s *RecipeService) load(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("recipe", id)
		}
		return nil, err
	}
	return recipe, nil
}

// Create stores a recipe authored by the caller. The image is either an
// uploaded file or an already stored path in w.Image.
func (s *RecipeService) Create(ctx context.Context, caller *Caller, w *types.RecipeWrite, image *Upload) (*RatedRecipe, error) {
	if err := Authorize(caller, OpRecipeCreate, nil); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{}
	if err := s.applyWrite(ctx, recipe, w); err != nil {
		return nil, err
	}
	recipe.Steps = stepsFromWrite(w.Steps)
	if w.Nutrition != nil {
		recipe.Nutrition = nutritionFromFields(w.Nutrition)
	}
	authorID := caller.UserID
	recipe.CreatedByID = &authorID

	uploaded, err := s.applyImage(ctx, recipe, image)
	if err != nil {
		return nil, err
	}
	if recipe.Image == "" {
		return nil, validationError("image is required")
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		if uploaded {
			discardImage(ctx, s.images, recipe.Image)
		}
		return nil, mapRepoError(err, "recipe")
	}

	logrus.WithFields(logrus.Fields{"recipe_id": recipe.ID, "user_id": caller.UserID}).Info("recipe created")
	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe with w. Steps are replaced; nutrition is
// replaced only when w carries one.
func (s *RecipeService) Update(ctx context.Context, caller *Caller, id uint, w *types.RecipeWrite, image *Upload) (*RatedRecipe, error) {
	recipe, err := s.loadForChange(ctx, caller, OpRecipeUpdate, id)
	if err != nil {
		return nil, err
	}

	previousImage := recipe.Image
	if err := s.applyWrite(ctx, recipe, w); err != nil {
		return nil, err
	}
	if w.Image == "" {
		recipe.Image = previousImage
	}
	recipe.Steps = stepsFromWrite(w.Steps)
	recipe.Nutrition = nil
	if w.Nutrition != nil {
		recipe.Nutrition = nutritionFromFields(w.Nutrition)
	}

	return s.save(ctx, recipe, image, previousImage, true)
}

// Patch changes only the fields present in p.
func (s *RecipeService) Patch(ctx context.Context, caller *Caller, id uint, p *types.RecipePatch) (*RatedRecipe, error) {
	recipe, err := s.loadForChange(ctx, caller, OpRecipeUpdate, id)
	if err != nil {
		return nil, err
	}
	previousImage := recipe.Image

	if p.Name != nil {
		if recipe.Name = strings.TrimSpace(*p.Name); recipe.Name == "" {
			return nil, validationError("name cannot be blank")
		}
	}
	if p.Description != nil {
		recipe.Description = *p.Description
	}
	if p.Image != nil {
		image, err := imagePath(recipe.Image, *p.Image)
		if err != nil {
			return nil, err
		}
		if image == "" {
			return nil, validationError("image cannot be blank")
		}
		recipe.Image = image
	}
	if p.TimeRequired != nil {
		if recipe.TimeRequired = strings.TrimSpace(*p.TimeRequired); recipe.TimeRequired == "" {
			return nil, validationError("time_required cannot be blank")
		}
	}
	if p.Servings != nil {
		if *p.Servings < 1 {
			return nil, validationError("servings must be at least 1")
		}
		recipe.Servings = *p.Servings
	}
	if p.Cuisine != nil {
		recipe.Cuisine = *p.Cuisine
	}
	if p.Category != nil {
		if err := s.checkCategory(ctx, p.Category); err != nil {
			return nil, err
		}
		recipe.CategoryID = p.Category
	}
	if p.Ingredients != nil {
		ingredients, err := s.resolveIngredients(ctx, *p.Ingredients)
		if err != nil {
			return nil, err
		}
		recipe.Ingredients = ingredients
	}
	recipe.Nutrition = nil
	if p.Nutrition != nil {
		recipe.Nutrition = nutritionFromFields(p.Nutrition)
	}
	replaceSteps := p.Steps != nil
	if replaceSteps {
		if err := validateSteps(*p.Steps); err != nil {
			return nil, err
		}
		recipe.Steps = stepsFromWrite(*p.Steps)
	}

	return s.save(ctx, recipe, nil, previousImage, replaceSteps)
}

func (s *RecipeService) save(ctx context.Context, recipe *models.Recipe, image *Upload, previousImage string, replaceSteps bool) (*RatedRecipe, error) {
	uploaded, err := s.applyImage(ctx, recipe, image)
	if err != nil {
		return nil, err
	}
	recipe.Category = nil
	recipe.CreatedBy = nil

	if err := s.recipes.Update(ctx, recipe, replaceSteps); err != nil {
		if uploaded {
			discardImage(ctx, s.images, recipe.Image)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("recipe", recipe.ID)
		}
		return nil, mapRepoError(err, "recipe")
	}
	if uploaded {
		discardImage(ctx, s.images, previousImage)
	}
	return s.Get(ctx, recipe.ID)
}

// Delete removes the recipe with its steps, nutrition and ratings, then its
// uploaded image.
func (s *RecipeService) Delete(ctx context.Context, caller *Caller, id uint) error {
	recipe, err := s.loadForChange(ctx, caller, OpRecipeDelete, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipe.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("recipe", id)
		}
		return mapRepoError(err, "recipe")
	}
	discardImage(ctx, s.images, recipe.Image)
	logrus.WithFields(logrus.Fields{"recipe_id": id, "user_id": caller.UserID}).Info("recipe deleted")
	return nil
}

// Ratings lists the individual ratings of a recipe.
func (s *RecipeService) Ratings(ctx context.Context, id uint) ([]models.RecipeRating, error) {
	exists, err := s.recipes.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundError("recipe", id)
	}
	ratings, err := s.ratings.ListByRecipe(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "rating")
	}
	return ratings, nil
}

// loadForChange authenticates before looking the recipe up so anonymous
// callers get 401 rather than 404.
func (s *RecipeService) loadForChange(ctx context.Context, caller *Caller, op Operation, id uint) (*models.Recipe, error) {
	if err := Authorize(caller, OpRecipeCreate, nil); err != nil {
		return nil, err
	}
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, op, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// applyWrite copies the scalar fields and references of w onto recipe.
func (s *RecipeService) applyWrite(ctx context.Context, recipe *models.Recipe, w *types.RecipeWrite) error {
	name := strings.TrimSpace(w.Name)
	timeRequired := strings.TrimSpace(w.TimeRequired)
	switch {
	case name == "":
		return validationError("name is required")
	case timeRequired == "":
		return validationError("time_required is required")
	case w.Servings < 1:
		return validationError("servings must be at least 1")
	}
	if err := validateSteps(w.Steps); err != nil {
		return err
	}
	image, err := imagePath(recipe.Image, w.Image)
	if err != nil {
		return err
	}
	if err := s.checkCategory(ctx, w.Category); err != nil {
		return err
	}
	ingredients, err := s.resolveIngredients(ctx, w.Ingredients)
	if err != nil {
		return err
	}

	recipe.Name = name
	recipe.Description = w.Description
	recipe.Image = image
	recipe.TimeRequired = timeRequired
	recipe.Servings = w.Servings
	recipe.Cuisine = w.Cuisine
	recipe.CategoryID = w.Category
	recipe.Ingredients = ingredients
	return nil
}

// applyImage stores an uploaded image and points the recipe at it.
func (s *RecipeService) applyImage(ctx context.Context, recipe *models.Recipe, image *Upload) (bool, error) {
	if image == nil {
		return false, nil
	}
	objectPath, err := saveImage(ctx, s.images, storage.DirRecipes, image)
	if err != nil {
		return false, err
	}
	recipe.Image = objectPath
	return true, nil
}

func (s *RecipeService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return validationError("category %d does not exist", *id)
		}
		return err
	}
	return nil
}

// resolveIngredients loads the referenced ingredients, rejecting unknown ids.
func (s *RecipeService) resolveIngredients(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	ingredients, err := s.ingredients.GetByIDs(ctx, unique)
	if err != nil {
		return nil, mapRepoError(err, "ingredient")
	}
	if len(ingredients) != len(unique) {
		found := make(map[uint]bool, len(ingredients))
		for _, ing := range ingredients {
			found[ing.ID] = true
		}
		missing := make([]uint, 0)
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, validationError("ingredients %v do not exist", missing)
	}
	return ingredients, nil
}

func validateSteps(steps []types.CookingStepWrite) error {
	for i, step := range steps {
		if step.StepNumber < 1 {
			return validationError("steps[%d]: step_number must be at least 1", i)
		}
		if strings.TrimSpace(step.Description) == "" {
			return validationError("steps[%d]: description is required", i)
		}
	}
	return nil
}

func stepsFromWrite(steps []types.CookingStepWrite) []models.CookingStep {
	out := make([]models.CookingStep, 0, len(steps))
	for _, step := range steps {
		out = append(out, models.CookingStep{StepNumber: step.StepNumber, Description: step.Description})
	}
	return out
}

func nutritionFromFields(f *types.NutritionFields) *models.Nutrition {
	return &models.Nutrition{
		Calories: f.Calories,
		Protein:  f.Protein,
		Fat:      f.Fat,
		Carbs:    f.Carbs,
	}
}
