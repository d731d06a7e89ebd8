package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

// MockTokenService is a mock implementation of service.ITokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockTokenService) GenerateToken(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	args := m.Called(userID, role, ttl)
	return args.String(0), args.Error(1)
}
