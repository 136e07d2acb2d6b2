package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated line of a shopping list
type ShoppingListItem struct {
	IngredientID uint
	Name         string
	Unit         string
	Total        int64
}

// ShoppingListService sums the ingredients of every recipe in a user's shopping cart
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate groups the cart's ingredient rows by ingredient and sums their amounts.
// Items are ordered by name, then unit, then ingredient id, comparing bytes.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	read := func(tx *gorm.DB) error {
		return tx.Table("recipe_ingredients").
			Select("ingredients.id AS ingredient_id, ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Joins("JOIN memberships ON memberships.recipe_id = recipe_ingredients.recipe_id").
			Where("memberships.user_id = ? AND memberships.kind = ?", userID, models.ShoppingCart).
			Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
			Scan(&items).Error
	}

	var err error
	if s.db.Dialector.Name() == "postgres" {
		err = s.db.WithContext(ctx).Transaction(read, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	} else {
		err = s.db.WithContext(ctx).Transaction(read)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.IngredientID < b.IngredientID
	})
	return items, nil
}

// Render formats items as "name, unit: total" lines without a trailing newline
func Render(items []ShoppingListItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s, %s: %d", item.Name, item.Unit, item.Total)
	}
	return strings.Join(lines, "\n")
}

// Download is the text body of the shopping_cart.txt attachment
func (s *ShoppingListService) Download(ctx context.Context, userID uuid.UUID) (string, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}
	return Render(items), nil
}
