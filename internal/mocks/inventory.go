package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockInventoryService is a mock implementation of service.IInventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CreateItem(ctx context.Context, actor uuid.UUID, input service.InventoryItemInput) (*models.InventoryItem, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) UpdateItem(ctx context.Context, actor, id uuid.UUID, input service.InventoryItemInput) (*models.InventoryItem, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) DeleteItem(ctx context.Context, actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockInventoryService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListItems(ctx context.Context, filter repository.InventoryFilter) ([]models.InventoryItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Adjust(ctx context.Context, actor, id uuid.UUID, delta decimal.Decimal, changeType models.ChangeType, reason string) (*service.AdjustResult, error) {
	args := m.Called(ctx, actor, id, delta, changeType, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdjustResult), args.Error(1)
}

func (m *MockInventoryService) DeductForRecipe(ctx context.Context, actor uuid.UUID, ingredients []models.Ingredient, servingsRatio decimal.Decimal, reason string) (*service.DeductionResult, error) {
	args := m.Called(ctx, actor, ingredients, servingsRatio, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeductionResult), args.Error(1)
}

func (m *MockInventoryService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ExpiringWithin(ctx context.Context, days *int) ([]service.ExpiringItem, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ExpiringItem), args.Error(1)
}

func (m *MockInventoryService) History(ctx context.Context, id uuid.UUID) ([]models.InventoryHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryHistory), args.Error(1)
}
