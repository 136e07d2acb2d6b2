package service_test

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	mediaDir  string
	author    *models.User
	reader    *models.User
	flour     *models.Ingredient
	sugar     *models.Ingredient
	eggs      *models.Ingredient
	breakfast *models.Tag
	dinner    *models.Tag
	links     *service.ShortLinkService
	recipes   *service.RecipeService
	users     *service.UserService
}

func newFixture(t *testing.T, tokens shortlink.TokenSource) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	if tokens == nil {
		tokens = shortlink.NewGenerator()
	}

	links, err := service.NewShortLinkService(db, 16, "http://foodgram.test")
	require.NoError(t, err)

	f := &fixture{
		db:        db,
		mediaDir:  t.TempDir(),
		author:    testhelpers.CreateTestUser(t, db, "author"),
		reader:    testhelpers.CreateTestUser(t, db, "reader"),
		flour:     testhelpers.CreateTestIngredient(t, db, "Flour", "g"),
		sugar:     testhelpers.CreateTestIngredient(t, db, "Sugar", "g"),
		eggs:      testhelpers.CreateTestIngredient(t, db, "Eggs", "pcs"),
		breakfast: testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast"),
		dinner:    testhelpers.CreateTestTag(t, db, "Dinner", "dinner"),
		links:     links,
	}
	store := service.NewDiskImageStore(f.mediaDir, "/media")
	f.recipes = service.NewRecipeService(db, service.NewImageService(store), tokens, links)
	f.users = service.NewUserService(db, service.NewAvatarService(store))
	return f
}

// request builds a valid write request for the fixture's catalog
func (f *fixture) request(name string) *types.RecipeWriteRequest {
	return &types.RecipeWriteRequest{
		Name:        name,
		Text:        "Whisk everything together and fry.",
		CookingTime: 20,
		Image:       testhelpers.PNGDataURI,
		Tags:        []uint{f.breakfast.ID},
		Ingredients: []types.IngredientAmount{
			{ID: f.flour.ID, Amount: 200},
			{ID: f.eggs.ID, Amount: 2},
		},
	}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
