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

// UserService exposes users as seen by a viewer and manages their avatars
type UserService struct {
	db      *gorm.DB
	avatars *ImageService
}

func NewUserService(db *gorm.DB, avatars *ImageService) *UserService {
	return &UserService{db: db, avatars: avatars}
}

// GetUser returns userID with is_subscribed relative to viewer
func (s *UserService) GetUser(ctx context.Context, viewer *uuid.UUID, userID uuid.UUID) (*types.UserResponse, error) {
	users, err := loadUsers(s.db.WithContext(ctx), viewer, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	u, ok := users[userID]
	if !ok {
		return nil, exceptions.NotFound("user", userID)
	}
	return &u, nil
}

// ListUsers pages through every user ordered by username
func (s *UserService) ListUsers(ctx context.Context, viewer *uuid.UUID, page, limit int) (*types.Page[types.UserResponse], error) {
	page, limit = normalizePage(page, limit)
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var ids []uuid.UUID
	err := db.Model(&models.User{}).Order("username").
		Offset((page-1)*limit).Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	results := make([]types.UserResponse, 0, len(ids))
	if len(ids) > 0 {
		users, err := loadUsers(db, viewer, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if u, ok := users[id]; ok {
				results = append(results, u)
			}
		}
	}
	return &types.Page[types.UserResponse]{Count: count, Results: results}, nil
}

// SetAvatar stores payload as userID's avatar and drops the previous one
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, payload string) (*types.AvatarResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.Save(ctx, payload)
	if err != nil {
		return nil, err
	}
	previous := user.Avatar
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		s.avatars.Remove(ctx, url)
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	s.avatars.Remove(ctx, previous)
	log.Printf("[UserService] user %s changed avatar", userID)
	return &types.AvatarResponse{Avatar: url}, nil
}

// DeleteAvatar clears userID's avatar. Clearing an empty avatar is not an error.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	previous := user.Avatar
	if previous == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", "").Error; err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	s.avatars.Remove(ctx, previous)
	return nil
}

func (s *UserService) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("user", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
