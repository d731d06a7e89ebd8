package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockNotificationService is a mock implementation of service.INotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) (*service.NotificationList, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotificationList), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationService) GenerateLowStock(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) GenerateExpiring(ctx context.Context, userID uuid.UUID, days int) (int, error) {
	args := m.Called(ctx, userID, days)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) GenerateMealReminders(ctx context.Context, userID uuid.UUID, days int) (int, error) {
	args := m.Called(ctx, userID, days)
	return args.Int(0), args.Error(1)
}
