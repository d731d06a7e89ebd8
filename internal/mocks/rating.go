package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// MockRatingService is a mock implementation of service.IRatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Rate(ctx context.Context, recipeID, userID uuid.UUID, thumbsUp bool, feedback, modifications string) (*models.Rating, error) {
	args := m.Called(ctx, recipeID, userID, thumbsUp, feedback, modifications)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) UpdateRating(ctx context.Context, ratingID, userID uuid.UUID, update service.RatingUpdate) (*models.Rating, error) {
	args := m.Called(ctx, ratingID, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) DeleteRating(ctx context.Context, ratingID, userID uuid.UUID) error {
	return m.Called(ctx, ratingID, userID).Error(0)
}

func (m *MockRatingService) ListRatings(ctx context.Context, recipeID uuid.UUID) ([]models.Rating, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingService) Summary(ctx context.Context, recipeID uuid.UUID) (*service.RatingSummary, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatingSummary), args.Error(1)
}

func (m *MockRatingService) Summaries(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID]service.RatingSummary, error) {
	args := m.Called(ctx, recipeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]service.RatingSummary), args.Error(1)
}
