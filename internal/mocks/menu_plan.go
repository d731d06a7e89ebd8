package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockMenuPlanService is a mock implementation of service.IMenuPlanService
type MockMenuPlanService struct {
	mock.Mock
}

func (m *MockMenuPlanService) CreatePlan(ctx context.Context, actor uuid.UUID, input service.MenuPlanInput) (*models.MenuPlan, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuPlan), args.Error(1)
}

func (m *MockMenuPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*models.MenuPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuPlan), args.Error(1)
}

func (m *MockMenuPlanService) ListPlans(ctx context.Context, weekStart *time.Time, activeOnly bool) ([]models.MenuPlan, error) {
	args := m.Called(ctx, weekStart, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuPlan), args.Error(1)
}

func (m *MockMenuPlanService) UpdatePlan(ctx context.Context, actor, id uuid.UUID, update service.MenuPlanUpdate) (*models.MenuPlan, error) {
	args := m.Called(ctx, actor, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuPlan), args.Error(1)
}

func (m *MockMenuPlanService) DeletePlan(ctx context.Context, actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockMenuPlanService) AddMeal(ctx context.Context, actor, planID uuid.UUID, input service.PlannedMealInput) (*models.PlannedMeal, error) {
	args := m.Called(ctx, actor, planID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlannedMeal), args.Error(1)
}

func (m *MockMenuPlanService) RemoveMeal(ctx context.Context, actor, planID, mealID uuid.UUID) error {
	return m.Called(ctx, actor, planID, mealID).Error(0)
}

func (m *MockMenuPlanService) MarkCooked(ctx context.Context, actor, planID, mealID uuid.UUID) (*service.MarkCookedResult, error) {
	args := m.Called(ctx, actor, planID, mealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MarkCookedResult), args.Error(1)
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Generate(ctx context.Context, planID uuid.UUID, opts service.ShoppingListOptions) (*service.ShoppingList, error) {
	args := m.Called(ctx, planID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShoppingList), args.Error(1)
}

func (m *MockShoppingListService) SetChecked(ctx context.Context, actor, planID uuid.UUID, itemKey string, checked, addToInventory bool) (*service.ShoppingListCheckResult, error) {
	args := m.Called(ctx, actor, planID, itemKey, checked, addToInventory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShoppingListCheckResult), args.Error(1)
}

// MockSuggestionService is a mock implementation of service.ISuggestionService
type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) Suggest(ctx context.Context, strategy service.Strategy, limit int) ([]service.Suggestion, error) {
	args := m.Called(ctx, strategy, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Suggestion), args.Error(1)
}
