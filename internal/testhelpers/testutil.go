package testhelpers

import (
	"fmt"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every user made by CreateTestUser
const TestPassword = "testpassword123"

// PNGDataURI is a 1x1 PNG encoded the way clients upload recipe images
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// CreateTestUser creates a user whose email is derived from username
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: string(hashed),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateTestRecipe inserts a recipe directly, bypassing validation and token generation.
// amounts maps ingredient id to amount.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name, token string, amounts map[uint]int, tags ...*models.Tag) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and bake.",
		Image:       "/media/recipes/test.png",
		CookingTime: 30,
		ShortToken:  token,
	}
	require.NoError(t, db.Create(recipe).Error)

	for id, amount := range amounts {
		require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: id, Amount: amount}).Error)
	}
	for _, tag := range tags {
		require.NoError(t, db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	return recipe
}

// AddToCart puts recipe in user's shopping cart
func AddToCart(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	require.NoError(t, db.Create(&models.Membership{UserID: user.ID, RecipeID: recipe.ID, Kind: models.ShoppingCart}).Error)
}
