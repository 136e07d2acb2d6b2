package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// GetRecipe returns the detail projection of one recipe as seen by viewer.
// An anonymous viewer (nil) sees every per-user flag as false.
func (s *RecipeService) GetRecipe(ctx context.Context, viewer *uuid.UUID, recipeID uint) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	details, err := project(ctx, s.db, viewer, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListRecipes returns one page of recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter) (*types.Page[types.RecipeDetail], error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Recipe{})
	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	// Membership filters only apply to signed-in viewers
	if viewer != nil {
		if filter.IsFavorited {
			q = q.Where("recipes.id IN (?)", membershipRecipes(db, *viewer, models.Favorite))
		}
		if filter.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)", membershipRecipes(db, *viewer, models.ShoppingCart))
		}
	}

	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := q.Order("recipes.created_at DESC").Order("recipes.id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	details, err := project(ctx, s.db, viewer, recipes)
	if err != nil {
		return nil, err
	}
	return &types.Page[types.RecipeDetail]{Count: count, Results: details}, nil
}

func membershipRecipes(db *gorm.DB, userID uuid.UUID, kind models.MembershipKind) *gorm.DB {
	return db.Model(&models.Membership{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// project builds detail projections for recipes with a fixed number of queries
func project(ctx context.Context, db *gorm.DB, viewer *uuid.UUID, recipes []models.Recipe) ([]types.RecipeDetail, error) {
	out := make([]types.RecipeDetail, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}
	db = db.WithContext(ctx)

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs = append(authorIDs, r.AuthorID)
	}

	authors, err := loadUsers(db, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	type tagRow struct {
		RecipeID uint
		ID       uint
		Name     string
		Slug     string
	}
	var tagRows []tagRow
	err = db.Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.id").
		Scan(&tagRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	tags := make(map[uint][]types.TagResponse)
	for _, row := range tagRows {
		tags[row.RecipeID] = append(tags[row.RecipeID], types.TagResponse{ID: row.ID, Name: row.Name, Slug: row.Slug})
	}

	type ingredientRow struct {
		RecipeID        uint
		ID              uint
		Name            string
		MeasurementUnit string
		Amount          int
	}
	var ingredientRows []ingredientRow
	err = db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, ingredients.id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("recipe_ingredients.id").
		Scan(&ingredientRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	ingredients := make(map[uint][]types.RecipeIngredientResponse)
	for _, row := range ingredientRows {
		ingredients[row.RecipeID] = append(ingredients[row.RecipeID], types.RecipeIngredientResponse{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	flags := make(map[uint]map[models.MembershipKind]bool)
	if viewer != nil {
		var memberships []models.Membership
		err = db.Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).Find(&memberships).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load memberships: %w", err)
		}
		for _, m := range memberships {
			if flags[m.RecipeID] == nil {
				flags[m.RecipeID] = make(map[models.MembershipKind]bool)
			}
			flags[m.RecipeID][m.Kind] = true
		}
	}

	for i, r := range recipes {
		out[i] = types.RecipeDetail{
			ID:               r.ID,
			Tags:             nonNil(tags[r.ID]),
			Author:           authors[r.AuthorID],
			Ingredients:      nonNil(ingredients[r.ID]),
			IsFavorited:      flags[r.ID][models.Favorite],
			IsInShoppingCart: flags[r.ID][models.ShoppingCart],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		}
	}
	return out, nil
}

// loadUsers returns user projections keyed by id, with is_subscribed relative to viewer
func loadUsers(db *gorm.DB, viewer *uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]types.UserResponse, error) {
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	subscribed := make(map[uuid.UUID]bool)
	if viewer != nil {
		var followed []uuid.UUID
		err := db.Model(&models.Subscription{}).
			Where("subscriber_id = ? AND author_id IN ?", *viewer, ids).
			Pluck("author_id", &followed).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load subscriptions: %w", err)
		}
		for _, id := range followed {
			subscribed[id] = true
		}
	}

	out := make(map[uuid.UUID]types.UserResponse, len(users))
	for _, u := range users {
		out[u.ID] = userResponse(&u, subscribed[u.ID])
	}
	return out, nil
}

func userResponse(u *models.User, subscribed bool) types.UserResponse {
	resp := types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		resp.Avatar = &avatar
	}
	return resp
}

func recipeShort(r *models.Recipe) types.RecipeShort {
	return types.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
