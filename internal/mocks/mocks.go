package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock implementation of service.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockMutationPolicy is a mock implementation of service.MutationPolicy
type MockMutationPolicy struct {
	mock.Mock
}

func (m *MockMutationPolicy) CanMutate(actorID uuid.UUID, actorIsStaff bool, authorID uuid.UUID) bool {
	args := m.Called(actorID, actorIsStaff, authorID)
	return args.Bool(0)
}

// MockShortLinkService is a mock implementation of service.IShortLinkService
type MockShortLinkService struct {
	mock.Mock
}

func (m *MockShortLinkService) Resolve(ctx context.Context, token string) (uint, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockShortLinkService) Link(ctx context.Context, recipeID uint) (string, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Error(1)
}

func (m *MockShortLinkService) Forget(token string) {
	m.Called(token)
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Download(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
