package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	args := m.Called(ctx, userID, current, next)
	return args.Error(0)
}

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Subscribe(ctx context.Context, viewer types.Viewer, target uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, viewer, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockFollowService) Unsubscribe(ctx context.Context, viewer types.Viewer, target uuid.UUID) error {
	args := m.Called(ctx, viewer, target)
	return args.Error(0)
}

func (m *MockFollowService) Subscriptions(ctx context.Context, viewer types.Viewer, page types.PageRequest) ([]models.User, int64, error) {
	args := m.Called(ctx, viewer, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockFollowService) SubscribedTo(ctx context.Context, viewer types.Viewer, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, viewer, authorIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockFollowService) AuthorRecipes(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID]*service.AuthorRecipes, error) {
	args := m.Called(ctx, authorIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*service.AuthorRecipes), args.Error(1)
}

var (
	_ service.IUserService   = (*MockUserService)(nil)
	_ service.IFollowService = (*MockFollowService)(nil)
)
