package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// validateRecipeWrite checks a create or update body against the catalog.
// Every failure is collected so the caller sees all of them at once.
func validateRecipeWrite(ctx context.Context, db *gorm.DB, req *types.RecipeWriteRequest, requireImage bool) error {
	ve := &exceptions.ValidationError{}

	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Name == "":
		ve.Add("name", "this field is required")
	case utf8.RuneCountInString(req.Name) > models.RecipeNameMaxLength:
		ve.Add("name", fmt.Sprintf("must be at most %d characters", models.RecipeNameMaxLength))
	}

	if strings.TrimSpace(req.Text) == "" {
		ve.Add("text", "this field is required")
	}

	if req.CookingTime < models.MinCookingTime || req.CookingTime > models.MaxCookingTime {
		ve.Add("cooking_time", fmt.Sprintf("must be between %d and %d", models.MinCookingTime, models.MaxCookingTime))
	}

	if requireImage && req.Image == "" {
		ve.Add("image", "this field is required")
	}

	if len(req.Tags) == 0 {
		ve.Add("tags", "at least one tag is required")
	} else {
		ids, dup := uniqueIDs(req.Tags)
		if dup {
			ve.AddErr("tags", exceptions.ErrDuplicateTag)
		}
		missing, err := missingIDs(ctx, db, &models.Tag{}, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			ve.Add("tags", fmt.Sprintf("unknown tag ids: %s", joinIDs(missing)))
		}
	}

	if len(req.Ingredients) == 0 {
		ve.Add("ingredients", "at least one ingredient is required")
	} else {
		raw := make([]uint, 0, len(req.Ingredients))
		for _, item := range req.Ingredients {
			raw = append(raw, item.ID)
			if item.Amount < models.MinAmount || item.Amount > models.MaxAmount {
				ve.Add("ingredients", fmt.Sprintf("amount of ingredient %d must be between %d and %d", item.ID, models.MinAmount, models.MaxAmount))
			}
		}
		ids, dup := uniqueIDs(raw)
		if dup {
			ve.AddErr("ingredients", exceptions.ErrDuplicateIngredient)
		}
		missing, err := missingIDs(ctx, db, &models.Ingredient{}, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			ve.Add("ingredients", fmt.Sprintf("unknown ingredient ids: %s", joinIDs(missing)))
		}
	}

	return ve.ErrOrNil()
}

// uniqueIDs returns the distinct ids in input order and whether any repeated
func uniqueIDs(ids []uint) ([]uint, bool) {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, len(out) != len(ids)
}

func missingIDs(ctx context.Context, db *gorm.DB, model interface{}, ids []uint) ([]uint, error) {
	var found []uint
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up ids: %w", err)
	}
	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
