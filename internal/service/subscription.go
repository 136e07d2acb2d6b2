package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// SubscriptionService manages who follows whom
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes subscriberID follow authorID and returns the author with a recipe preview.
// recipesLimit <= 0 means every recipe.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	if subscriberID == authorID {
		return nil, exceptions.Invalid("author", exceptions.ErrSelfSubscription)
	}
	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("user", authorID)
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	var count int64
	err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return nil, exceptions.Conflict("subscription to", authorID)
	}

	sub := models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exceptions.Conflict("subscription to", authorID)
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	log.Printf("[SubscriptionService] %s subscribed to %s", subscriberID, authorID)

	return s.withRecipes(db, &author, true, recipesLimit)
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return exceptions.NotFound("subscription to", authorID)
	}
	return nil
}

// ListSubscriptions pages through the authors subscriberID follows, most recent first
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, subscriberID uuid.UUID, page, limit, recipesLimit int) (*types.Page[types.SubscriptionResponse], error) {
	page, limit = normalizePage(page, limit)
	db := s.db.WithContext(ctx)

	q := db.Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID)

	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	err := q.Order("subscriptions.created_at DESC").Order("subscriptions.id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	results := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		item, err := s.withRecipes(db, &authors[i], true, recipesLimit)
		if err != nil {
			return nil, err
		}
		results = append(results, *item)
	}
	return &types.Page[types.SubscriptionResponse]{Count: count, Results: results}, nil
}

func (s *SubscriptionService) withRecipes(db *gorm.DB, author *models.User, subscribed bool, recipesLimit int) (*types.SubscriptionResponse, error) {
	var total int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	q := db.Where("author_id = ?", author.ID).Order("created_at DESC").Order("id DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	shorts := make([]types.RecipeShort, len(recipes))
	for i := range recipes {
		shorts[i] = recipeShort(&recipes[i])
	}
	return &types.SubscriptionResponse{
		UserResponse: userResponse(author, subscribed),
		Recipes:      shorts,
		RecipesCount: total,
	}, nil
}
