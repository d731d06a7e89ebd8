package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockSettingsService is a mock implementation of service.ISettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Current(ctx context.Context) (models.AppSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, actor uuid.UUID, update service.SettingsUpdate) (*models.AppSettings, error) {
	args := m.Called(ctx, actor, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppSettings), args.Error(1)
}
