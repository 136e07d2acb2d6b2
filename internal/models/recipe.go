package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bounds shared by the schema and request validation
const (
	MinCookingTime = 1
	MaxCookingTime = 32767
	MinAmount      = 1
	MaxAmount      = 32767

	RecipeNameMaxLength      = 256
	TagNameMaxLength         = 32
	TagSlugMaxLength         = 32
	IngredientNameMaxLength  = 128
	MeasurementUnitMaxLength = 64
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"size:256;not null;uniqueIndex" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"size:512;not null" json:"image"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1 AND cooking_time <= 32767" json:"cooking_time"`
	ShortToken  string    `gorm:"size:4;not null;uniqueIndex" json:"-"`
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:32;not null;uniqueIndex" json:"slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit;index" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
	// SearchName is the lowercased Name; SQLite's LOWER only folds ASCII
	SearchName string `gorm:"size:128;not null;default:'';index" json:"-"`
}

// BeforeSave keeps SearchName in step with Name
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.SearchName = strings.ToLower(i.Name)
	return nil
}

// RecipeTag is the recipe to tag association. Rows are replaced wholesale with their recipe.
type RecipeTag struct {
	RecipeID uint    `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	TagID    uint    `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	Recipe   *Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tag      *Tag    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient carries the amount of one ingredient in one recipe
type RecipeIngredient struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int         `gorm:"not null;check:amount >= 1 AND amount <= 32767" json:"amount"`
	Recipe       *Recipe     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
