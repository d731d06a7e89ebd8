package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockStatisticsService is a mock implementation of service.IStatisticsService
type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) Snapshot(ctx context.Context) (*service.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Statistics), args.Error(1)
}
