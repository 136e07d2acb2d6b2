package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipKind tags what a user-to-recipe membership row is for
type MembershipKind string

const (
	Favorite     MembershipKind = "favorite"
	ShoppingCart MembershipKind = "shopping_cart"
)

// Valid reports whether k is a known kind
func (k MembershipKind) Valid() bool {
	return k == Favorite || k == ShoppingCart
}

// Membership is one "user flagged recipe" row. Favorites and the shopping cart share this table.
type Membership struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_unique" json:"user_id"`
	RecipeID  uint           `gorm:"not null;uniqueIndex:idx_membership_unique;index" json:"recipe_id"`
	Kind      MembershipKind `gorm:"size:16;not null;uniqueIndex:idx_membership_unique" json:"kind"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Membership) TableName() string {
	return "memberships"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Membership{},
		&Subscription{},
	}
}
