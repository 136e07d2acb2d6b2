package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"gorm.io/gorm"
)

// ShortLinkService resolves short tokens to recipe ids and builds short links.
// Resolved tokens are memoised; a token is never reassigned while its recipe lives.
type ShortLinkService struct {
	db      *gorm.DB
	cache   *lru.Cache
	baseURL string
}

func NewShortLinkService(db *gorm.DB, cacheSize int, baseURL string) (*ShortLinkService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create short link cache: %w", err)
	}
	return &ShortLinkService{
		db:      db,
		cache:   cache,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Resolve returns the recipe id behind token, or NotFound
func (s *ShortLinkService) Resolve(ctx context.Context, token string) (uint, error) {
	if !shortlink.Valid(token) {
		return 0, exceptions.NotFound("short link", token)
	}
	if id, ok := s.cache.Get(token); ok {
		return id.(uint), nil
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Select("id").Where("short_token = ?", token).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, exceptions.NotFound("short link", token)
		}
		return 0, fmt.Errorf("failed to resolve short link: %w", err)
	}

	s.cache.Add(token, recipe.ID)
	return recipe.ID, nil
}

// Link returns the short link of a recipe. Without a configured base URL the link is
// a path relative to the serving host.
func (s *ShortLinkService) Link(ctx context.Context, recipeID uint) (string, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Select("id", "short_token").First(&recipe, recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", exceptions.NotFound("recipe", recipeID)
		}
		return "", fmt.Errorf("failed to load recipe: %w", err)
	}
	return s.baseURL + "/s/" + recipe.ShortToken, nil
}

// Forget drops a token from the cache once its recipe is gone
func (s *ShortLinkService) Forget(token string) {
	if token != "" {
		s.cache.Remove(token)
	}
}
