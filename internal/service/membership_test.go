package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipAddTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewMembershipService(f.db)
	ctx := context.Background()
	recipe := testhelpers.CreateTestRecipe(t, f.db, f.author, "Salad", "sld1", nil)

	short, err := svc.Add(ctx, models.Favorite, f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, &types.RecipeShort{ID: recipe.ID, Name: "Salad", Image: recipe.Image, CookingTime: 30}, short)

	_, err = svc.Add(ctx, models.Favorite, f.reader.ID, recipe.ID)
	require.ErrorIs(t, err, exceptions.ErrConflict)
	assert.EqualValues(t, 1, f.count(t, &models.Membership{}))
}

func TestMembershipKindsAreIndependent(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewMembershipService(f.db)
	ctx := context.Background()
	recipe := testhelpers.CreateTestRecipe(t, f.db, f.author, "Salad", "sld1", nil)

	_, err := svc.Add(ctx, models.Favorite, f.reader.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, models.ShoppingCart, f.reader.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, models.ShoppingCart, f.author.ID, recipe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, f.count(t, &models.Membership{}))

	require.NoError(t, svc.Remove(ctx, models.Favorite, f.reader.ID, recipe.ID))
	assert.EqualValues(t, 2, f.count(t, &models.Membership{}))
}

func TestMembershipRemoveMissingIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewMembershipService(f.db)
	ctx := context.Background()
	recipe := testhelpers.CreateTestRecipe(t, f.db, f.author, "Salad", "sld1", nil)

	err := svc.Remove(ctx, models.ShoppingCart, f.reader.ID, recipe.ID)
	assert.ErrorIs(t, err, exceptions.ErrNotFound)
}

func TestMembershipUnknownRecipe(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewMembershipService(f.db)

	_, err := svc.Add(context.Background(), models.Favorite, f.reader.ID, 404)
	assert.ErrorIs(t, err, exceptions.ErrNotFound)
	assert.Zero(t, f.count(t, &models.Membership{}))
}

func TestMembershipUniqueIndexBacksTheCheck(t *testing.T) {
	f := newFixture(t, nil)
	recipe := testhelpers.CreateTestRecipe(t, f.db, f.author, "Salad", "sld1", nil)
	row := func() *models.Membership {
		return &models.Membership{UserID: f.reader.ID, RecipeID: recipe.ID, Kind: models.Favorite}
	}

	require.NoError(t, f.db.Create(row()).Error)
	assert.Error(t, f.db.Create(row()).Error)
}

func TestMembershipRejectsUnknownKind(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewMembershipService(f.db)

	_, err := svc.Add(context.Background(), models.MembershipKind("wishlist"), f.reader.ID, 1)
	assert.Error(t, err)
}
