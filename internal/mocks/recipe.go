package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the IRecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, viewer types.Viewer, req types.CreateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, viewer, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, viewer types.Viewer, id uuid.UUID, req types.UpdateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, viewer, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, viewer types.Viewer, id uuid.UUID) error {
	args := m.Called(ctx, viewer, id)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageRequest) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, viewer, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

// MockInteractionService is a mock implementation of the IInteractionService interface
type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) Add(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID, kind service.InteractionKind) (*models.Recipe, error) {
	args := m.Called(ctx, viewer, recipeID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockInteractionService) Remove(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID, kind service.InteractionKind) error {
	args := m.Called(ctx, viewer, recipeID, kind)
	return args.Error(0)
}

func (m *MockInteractionService) Flags(ctx context.Context, viewer types.Viewer, recipeIDs []uuid.UUID) (map[uuid.UUID]service.RecipeFlags, error) {
	args := m.Called(ctx, viewer, recipeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]service.RecipeFlags), args.Error(1)
}

var (
	_ service.IRecipeService      = (*MockRecipeService)(nil)
	_ service.IInteractionService = (*MockInteractionService)(nil)
)
