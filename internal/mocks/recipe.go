package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, actor uuid.UUID, content models.RecipeContent) (*models.Recipe, error) {
	args := m.Called(ctx, actor, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, actor, id uuid.UUID, content models.RecipeContent, changeDescription string) (*models.Recipe, error) {
	args := m.Called(ctx, actor, id, content, changeDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) RevertRecipe(ctx context.Context, actor, id uuid.UUID, versionNumber int) (*models.Recipe, error) {
	args := m.Called(ctx, actor, id, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) RecordCooked(ctx context.Context, id uuid.UUID, cookedDate time.Time) (*models.Recipe, error) {
	args := m.Called(ctx, id, cookedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, filter service.RecipeListFilter) (*service.RecipePage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipePage), args.Error(1)
}

func (m *MockRecipeService) ListVersions(ctx context.Context, id uuid.UUID) ([]models.RecipeVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecipeVersion), args.Error(1)
}

func (m *MockRecipeService) GetVersion(ctx context.Context, id uuid.UUID, versionNumber int) (*models.RecipeVersion, error) {
	args := m.Called(ctx, id, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeVersion), args.Error(1)
}
