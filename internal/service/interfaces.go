package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IUserService exposes users as seen by a viewer and manages their avatars
type IUserService interface {
	GetUser(ctx context.Context, viewer *uuid.UUID, userID uuid.UUID) (*types.UserResponse, error)
	ListUsers(ctx context.Context, viewer *uuid.UUID, page, limit int) (*types.Page[types.UserResponse], error)
	SetAvatar(ctx context.Context, userID uuid.UUID, payload string) (*types.AvatarResponse, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
}

// ICatalogService serves the tag and ingredient reference data
type ICatalogService interface {
	ListTags(ctx context.Context) ([]types.TagResponse, error)
	GetTag(ctx context.Context, id uint) (*types.TagResponse, error)
	CreateTag(ctx context.Context, name, slug string) (*models.Tag, error)
	ListIngredients(ctx context.Context, name string) ([]types.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientResponse, error)
	CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeDetail, error)
	UpdateRecipe(ctx context.Context, editorID uuid.UUID, recipeID uint, req *types.RecipeWriteRequest) (*types.RecipeDetail, error)
	DeleteRecipe(ctx context.Context, recipeID uint) error
	GetRecipe(ctx context.Context, viewer *uuid.UUID, recipeID uint) (*types.RecipeDetail, error)
	GetRecipeAuthor(ctx context.Context, recipeID uint) (uuid.UUID, error)
	ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter) (*types.Page[types.RecipeDetail], error)
}

// IMembershipService manages the favorite and shopping cart relations
type IMembershipService interface {
	Add(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (*types.RecipeShort, error)
	Remove(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) error
}

// ISubscriptionService manages user-to-author subscriptions
type ISubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, subscriberID uuid.UUID, page, limit, recipesLimit int) (*types.Page[types.SubscriptionResponse], error)
}

// IShoppingListService builds the downloadable shopping list
type IShoppingListService interface {
	Download(ctx context.Context, userID uuid.UUID) (string, error)
}

// IShortLinkService maps recipes to and from their short tokens
type IShortLinkService interface {
	Resolve(ctx context.Context, token string) (uint, error)
	Link(ctx context.Context, recipeID uint) (string, error)
	Forget(token string)
}

// ImageStore persists encoded recipe images and returns their public URL
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// MutationPolicy decides who may change or delete a recipe
type MutationPolicy interface {
	CanMutate(actorID uuid.UUID, actorIsStaff bool, authorID uuid.UUID) bool
}
