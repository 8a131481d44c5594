package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockAuthService is a mock implementation of the IAuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (types.Viewer, *types.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(1) == nil {
		return args.Get(0).(types.Viewer), nil, args.Error(2)
	}
	return args.Get(0).(types.Viewer), args.Get(1).(*types.TokenClaims), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

var _ service.IAuthService = (*MockAuthService)(nil)
