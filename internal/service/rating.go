package service

import (
	"context"
	"errors"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/sirupsen/logrus"
)

// RatingService records recipe ratings.
type RatingService struct {
	ratings repository.RatingRepository
	recipes repository.RecipeRepository
}

func NewRatingService(repos *repository.Repositories) *RatingService {
	return &RatingService{ratings: repos.Ratings, recipes: repos.Recipes}
}

// Rate stores the caller's rating of recipeID. Rating the same recipe again
// overwrites the earlier value.
func (s *RatingService) Rate(ctx context.Context, caller *Caller, recipeID uint, rating int) (*models.RecipeRating, error) {
	if err := Authorize(caller, OpRecipeRate, nil); err != nil {
		return nil, err
	}
	if recipeID == 0 {
		return nil, validationError("recipe_id is required")
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, validationError("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundError("recipe", recipeID)
	}

	record, err := s.ratings.Upsert(ctx, caller.UserID, recipeID, rating)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, notFoundError("recipe", recipeID)
		}
		return nil, mapRepoError(err, "rating")
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id": recipeID,
		"user_id":   caller.UserID,
		"rating":    rating,
	}).Debug("recipe rated")
	return record, nil
}
