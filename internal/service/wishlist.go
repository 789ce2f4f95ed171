package service

import (
	"context"
	"errors"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
)

// WishlistEntry is a saved recipe with the recipe's average rating.
type WishlistEntry struct {
	Entry         *models.Wishlist
	AverageRating float64
}

// WishlistService manages the caller's saved recipes.
type WishlistService struct {
	wishlists repository.WishlistRepository
	recipes   repository.RecipeRepository
	ratings   repository.RatingRepository
}

func NewWishlistService(repos *repository.Repositories) *WishlistService {
	return &WishlistService{
		wishlists: repos.Wishlists,
		recipes:   repos.Recipes,
		ratings:   repos.Ratings,
	}
}

// Mine lists the caller's entries, newest first.
func (s *WishlistService) Mine(ctx context.Context, caller *Caller) ([]WishlistEntry, error) {
	if err := Authorize(caller, OpWishlistRead, nil); err != nil {
		return nil, err
	}
	entries, err := s.wishlists.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, mapRepoError(err, "wishlist entry")
	}
	return s.withRatings(ctx, entries)
}

// Add saves recipeID for the caller. Adding a recipe twice returns the
// existing entry with created set to false.
func (s *WishlistService) Add(ctx context.Context, caller *Caller, recipeID uint) (*WishlistEntry, bool, error) {
	if err := Authorize(caller, OpWishlistAdd, nil); err != nil {
		return nil, false, err
	}
	if recipeID == 0 {
		return nil, false, validationError("recipe_id is required")
	}
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, notFoundError("recipe", recipeID)
	}

	entry, created, err := s.wishlists.AddIfAbsent(ctx, caller.UserID, recipeID)
	if err != nil {
		// The recipe can disappear between the check and the insert.
		if errors.Is(err, repository.ErrInvalidReference) || errors.Is(err, repository.ErrNotFound) {
			return nil, false, notFoundError("recipe", recipeID)
		}
		return nil, false, mapRepoError(err, "wishlist entry")
	}

	rated, err := s.withRatings(ctx, []models.Wishlist{*entry})
	if err != nil {
		return nil, false, err
	}
	return &rated[0], created, nil
}

// Remove deletes one of the caller's entries by its id.
func (s *WishlistService) Remove(ctx context.Context, caller *Caller, id uint) error {
	if err := Authorize(caller, OpWishlistRead, nil); err != nil {
		return err
	}
	entry, err := s.wishlists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("wishlist entry", id)
		}
		return err
	}
	if err := Authorize(caller, OpWishlistRemove, entry); err != nil {
		return err
	}
	if err := s.wishlists.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("wishlist entry", id)
		}
		return mapRepoError(err, "wishlist entry")
	}
	return nil
}

func (s *WishlistService) withRatings(ctx context.Context, entries []models.Wishlist) ([]WishlistEntry, error) {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.RecipeID)
	}
	stats, err := s.ratings.Stats(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err, "rating")
	}
	out := make([]WishlistEntry, 0, len(entries))
	for i := range entries {
		out = append(out, WishlistEntry{
			Entry:         &entries[i],
			AverageRating: stats[entries[i].RecipeID].Average(),
		})
	}
	return out, nil
}
