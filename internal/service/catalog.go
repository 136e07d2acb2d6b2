package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// CatalogService serves tags and ingredients, the reference data recipes point at
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagResponse, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	out := make([]types.TagResponse, len(tags))
	for i, t := range tags {
		out[i] = types.TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	return out, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*types.TagResponse, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("tag", id)
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	return &types.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}, nil
}

// CreateTag inserts a tag. An empty slug is derived from the name.
func (s *CatalogService) CreateTag(ctx context.Context, name, tagSlug string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if tagSlug == "" {
		tagSlug = slug.Make(name)
	}
	if len(tagSlug) > models.TagSlugMaxLength {
		tagSlug = strings.Trim(tagSlug[:models.TagSlugMaxLength], "-")
	}

	ve := &exceptions.ValidationError{}
	if name == "" || utf8.RuneCountInString(name) > models.TagNameMaxLength {
		ve.Add("name", fmt.Sprintf("must be 1 to %d characters", models.TagNameMaxLength))
	}
	if !slug.IsSlug(tagSlug) {
		ve.Add("slug", "must contain only lowercase letters, digits and hyphens")
	}
	if err := ve.ErrOrNil(); err != nil {
		return nil, err
	}

	tag := models.Tag{Name: name, Slug: tagSlug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exceptions.Conflict("tag", tagSlug)
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

// ListIngredients returns ingredients whose name contains name, case-insensitively
func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]types.IngredientResponse, error) {
	q := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("search_name LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(name))+"%")
	}
	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	out := make([]types.IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = ingredientResponse(&ing)
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*types.IngredientResponse, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("ingredient", id)
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	resp := ingredientResponse(&ing)
	return &resp, nil
}

// CreateIngredient inserts an ingredient; (name, unit) pairs are unique
func (s *CatalogService) CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	name, unit = strings.TrimSpace(name), strings.TrimSpace(unit)

	ve := &exceptions.ValidationError{}
	if name == "" || utf8.RuneCountInString(name) > models.IngredientNameMaxLength {
		ve.Add("name", fmt.Sprintf("must be 1 to %d characters", models.IngredientNameMaxLength))
	}
	if unit == "" || utf8.RuneCountInString(unit) > models.MeasurementUnitMaxLength {
		ve.Add("measurement_unit", fmt.Sprintf("must be 1 to %d characters", models.MeasurementUnitMaxLength))
	}
	if err := ve.ErrOrNil(); err != nil {
		return nil, err
	}

	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := s.db.WithContext(ctx).Create(&ing).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exceptions.Conflict("ingredient", name+", "+unit)
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &ing, nil
}

func ingredientResponse(ing *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
