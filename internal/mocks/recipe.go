package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeDetail, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeService) UpdateRecipe(ctx context.Context, editorID uuid.UUID, recipeID uint, req *types.RecipeWriteRequest) (*types.RecipeDetail, error) {
	args := m.Called(ctx, editorID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeService) DeleteRecipe(ctx context.Context, recipeID uint) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, viewer *uuid.UUID, recipeID uint) (*types.RecipeDetail, error) {
	args := m.Called(ctx, viewer, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

// GetRecipeAuthor mocks the GetRecipeAuthor method
func (m *MockRecipeService) GetRecipeAuthor(ctx context.Context, recipeID uint) (uuid.UUID, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// ListRecipes mocks the ListRecipes method
func (m *MockRecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter) (*types.Page[types.RecipeDetail], error) {
	args := m.Called(ctx, viewer, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Page[types.RecipeDetail]), args.Error(1)
}

// MockMembershipService is a mock implementation of the favorite and shopping cart service
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) Add(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (*types.RecipeShort, error) {
	args := m.Called(ctx, kind, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeShort), args.Error(1)
}

func (m *MockMembershipService) Remove(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) error {
	args := m.Called(ctx, kind, userID, recipeID)
	return args.Error(0)
}
