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

// MembershipService adds and removes favorite and shopping cart entries
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// Add flags recipeID for userID under kind. Adding twice is a conflict.
func (s *MembershipService) Add(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (*types.RecipeShort, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	var count int64
	err := db.Model(&models.Membership{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	if count > 0 {
		return nil, exceptions.Conflict(string(kind), recipeID)
	}

	membership := models.Membership{UserID: userID, RecipeID: recipeID, Kind: kind}
	if err := db.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exceptions.Conflict(string(kind), recipeID)
		}
		return nil, fmt.Errorf("failed to add %s: %w", kind, err)
	}

	log.Printf("[MembershipService] %s: user %s added recipe %d", kind, userID, recipeID)
	short := recipeShort(&recipe)
	return &short, nil
}

// Remove deletes the flag; a missing row is NotFound
func (s *MembershipService) Remove(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown membership kind %q", kind)
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.Membership{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return exceptions.NotFound(string(kind), recipeID)
	}
	return nil
}
