package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	tokens shortlink.TokenSource
	links  IShortLinkService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images *ImageService, tokens shortlink.TokenSource, links IShortLinkService) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		tokens: tokens,
		links:  links,
	}
}

// CreateRecipe validates the request, stores the image and writes the recipe with its
// tags and ingredient amounts in one transaction. The result is the detail projection.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeDetail, error) {
	if err := validateRecipeWrite(ctx, s.db, req, true); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, s.db, req.Name, 0); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageURL,
		CookingTime: req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertWithToken(tx, &recipe); err != nil {
			return err
		}
		if err := replaceTags(tx, recipe.ID, req.Tags); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		s.images.Remove(ctx, imageURL)
		return nil, err
	}

	log.Printf("[RecipeService] created recipe %d (%q) with token %s", recipe.ID, recipe.Name, recipe.ShortToken)
	return s.GetRecipe(ctx, &authorID, recipe.ID)
}

// insertWithToken assigns a fresh short token and inserts the recipe. Each attempt runs
// under a savepoint so a unique violation does not poison the surrounding transaction.
func (s *RecipeService) insertWithToken(tx *gorm.DB, recipe *models.Recipe) error {
	if recipe.ShortToken != "" {
		return tx.Create(recipe).Error
	}

	for attempt := 1; attempt <= shortlink.MaxAttempts; attempt++ {
		token := s.tokens.Generate()

		var taken int64
		if err := tx.Model(&models.Recipe{}).Where("short_token = ?", token).Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check short token: %w", err)
		}
		if taken > 0 {
			continue
		}

		savepoint := fmt.Sprintf("recipe_token_%d", attempt)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return fmt.Errorf("failed to create savepoint: %w", err)
		}
		recipe.ShortToken = token
		err := tx.Create(recipe).Error
		if err == nil {
			return nil
		}
		if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
			return fmt.Errorf("failed to roll back to savepoint: %w", rbErr)
		}
		recipe.ID = 0
		recipe.ShortToken = ""
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		// The name index can fire too when a concurrent writer won the name
		if err := s.checkNameFree(tx.Statement.Context, tx, recipe.Name, 0); err != nil {
			return err
		}
	}

	log.Printf("[RecipeService] ALERT: no free short token after %d attempts for recipe %q", shortlink.MaxAttempts, recipe.Name)
	return exceptions.ErrExhaustedIdentifierSpace
}

// UpdateRecipe replaces the scalar fields, the tag set and the ingredient list of a recipe.
// Authorization has already been decided by the caller's MutationPolicy.
func (s *RecipeService) UpdateRecipe(ctx context.Context, editorID uuid.UUID, recipeID uint, req *types.RecipeWriteRequest) (*types.RecipeDetail, error) {
	var current models.Recipe
	if err := s.db.WithContext(ctx).First(&current, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.NotFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	if err := validateRecipeWrite(ctx, s.db, req, false); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, s.db, req.Name, recipeID); err != nil {
		return nil, err
	}

	var newImage string
	if req.Image != "" {
		url, err := s.images.Save(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		newImage = url
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         req.Name,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}
		if newImage != "" {
			updates["image"] = newImage
		}
		res := tx.Model(&models.Recipe{ID: recipeID}).Updates(updates)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return exceptions.Conflict("recipe", req.Name)
			}
			return fmt.Errorf("failed to update recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return exceptions.NotFound("recipe", recipeID)
		}
		if err := replaceTags(tx, recipeID, req.Tags); err != nil {
			return err
		}
		return replaceIngredients(tx, recipeID, req.Ingredients)
	})
	if err != nil {
		s.images.Remove(ctx, newImage)
		return nil, err
	}
	if newImage != "" {
		s.images.Remove(ctx, current.Image)
	}

	log.Printf("[RecipeService] recipe %d updated by %s", recipeID, editorID)
	return s.GetRecipe(ctx, &editorID, recipeID)
}

// DeleteRecipe removes a recipe; ingredient rows, tag rows and memberships cascade
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID uint) error {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return exceptions.NotFound("recipe", recipeID)
			}
			return fmt.Errorf("failed to load recipe: %w", err)
		}
		if err := tx.Delete(&models.Recipe{}, recipeID).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.links.Forget(recipe.ShortToken)
	s.images.Remove(ctx, recipe.Image)
	log.Printf("[RecipeService] deleted recipe %d", recipeID)
	return nil
}

// GetRecipeAuthor returns the author of a recipe, for permission checks
func (s *RecipeService) GetRecipeAuthor(ctx context.Context, recipeID uint) (uuid.UUID, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id", "author_id").First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, exceptions.NotFound("recipe", recipeID)
		}
		return uuid.Nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return recipe.AuthorID, nil
}

// checkNameFree fails with a conflict when another recipe already uses name
func (s *RecipeService) checkNameFree(ctx context.Context, db *gorm.DB, name string, exceptID uint) error {
	q := db.WithContext(ctx).Model(&models.Recipe{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check recipe name: %w", err)
	}
	if count > 0 {
		return exceptions.Conflict("recipe", name)
	}
	return nil
}

// replaceTags swaps the whole tag set of a recipe
func replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert recipe tags: %w", err)
	}
	return nil
}

// replaceIngredients deletes every ingredient row of a recipe and bulk-inserts the new list
func replaceIngredients(tx *gorm.DB, recipeID uint, items []types.IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert recipe ingredients: %w", err)
	}
	return nil
}
