package mocks

import (
	"context"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) rated(args mock.Arguments) (*service.RatedRecipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatedRecipe), args.Error(1)
}

func (m *MockRecipeService) ratedList(args mock.Arguments) ([]service.RatedRecipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RatedRecipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context) ([]service.RatedRecipe, error) {
	return m.ratedList(m.Called(ctx))
}

func (m *MockRecipeService) ByCategory(ctx context.Context, category string) ([]service.RatedRecipe, error) {
	return m.ratedList(m.Called(ctx, category))
}

func (m *MockRecipeService) Search(ctx context.Context, ingredientNames []string) ([]service.RatedRecipe, error) {
	return m.ratedList(m.Called(ctx, ingredientNames))
}

func (m *MockRecipeService) Get(ctx context.Context, id uint) (*service.RatedRecipe, error) {
	return m.rated(m.Called(ctx, id))
}

func (m *MockRecipeService) Create(ctx context.Context, caller *service.Caller, w *types.RecipeWrite, image *service.Upload) (*service.RatedRecipe, error) {
	return m.rated(m.Called(ctx, caller, w, image))
}

func (m *MockRecipeService) Update(ctx context.Context, caller *service.Caller, id uint, w *types.RecipeWrite, image *service.Upload) (*service.RatedRecipe, error) {
	return m.rated(m.Called(ctx, caller, id, w, image))
}

func (m *MockRecipeService) Patch(ctx context.Context, caller *service.Caller, id uint, p *types.RecipePatch) (*service.RatedRecipe, error) {
	return m.rated(m.Called(ctx, caller, id, p))
}

func (m *MockRecipeService) Delete(ctx context.Context, caller *service.Caller, id uint) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockRecipeService) Ratings(ctx context.Context, id uint) ([]models.RecipeRating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecipeRating), args.Error(1)
}

var _ service.IRecipeService = (*MockRecipeService)(nil)
