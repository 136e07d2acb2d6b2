package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeToSelfIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewSubscriptionService(f.db)

	_, err := svc.Subscribe(context.Background(), f.reader.ID, f.reader.ID, 0)
	require.ErrorIs(t, err, exceptions.ErrSelfSubscription)
	assert.Equal(t, 400, exceptions.Status(err))
	assert.Zero(t, f.count(t, &models.Subscription{}))
}

func TestSubscribeTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewSubscriptionService(f.db)
	ctx := context.Background()
	testhelpers.CreateTestRecipe(t, f.db, f.author, "First", "fst1", nil)
	testhelpers.CreateTestRecipe(t, f.db, f.author, "Second", "snd1", nil)

	sub, err := svc.Subscribe(ctx, f.reader.ID, f.author.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 2, sub.RecipesCount)
	require.Len(t, sub.Recipes, 1)
	assert.Equal(t, "Second", sub.Recipes[0].Name)

	_, err = svc.Subscribe(ctx, f.reader.ID, f.author.ID, 0)
	assert.ErrorIs(t, err, exceptions.ErrConflict)
	assert.EqualValues(t, 1, f.count(t, &models.Subscription{}))
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewSubscriptionService(f.db)
	_, err := svc.Subscribe(context.Background(), f.reader.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, exceptions.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewSubscriptionService(f.db)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, f.reader.ID, f.author.ID, 0)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, f.reader.ID, f.author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, f.reader.ID, f.author.ID), exceptions.ErrNotFound)
}

func TestListSubscriptions(t *testing.T) {
	f := newFixture(t, nil)
	svc := service.NewSubscriptionService(f.db)
	ctx := context.Background()
	chef := testhelpers.CreateTestUser(t, f.db, "chef")
	for _, name := range []string{"Ramen", "Udon", "Soba"} {
		testhelpers.CreateTestRecipe(t, f.db, chef, name, name[:3]+"1", nil)
	}

	_, err := svc.Subscribe(ctx, f.reader.ID, f.author.ID, 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, f.reader.ID, chef.ID, 0)
	require.NoError(t, err)

	page, err := svc.ListSubscriptions(ctx, f.reader.ID, 1, 10, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)
	require.Len(t, page.Results, 2)

	latest := page.Results[0]
	assert.Equal(t, chef.ID, latest.ID)
	assert.EqualValues(t, 3, latest.RecipesCount)
	assert.Len(t, latest.Recipes, 2)
	assert.Empty(t, page.Results[1].Recipes)

	second, err := svc.ListSubscriptions(ctx, f.reader.ID, 2, 1, 0)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.Equal(t, f.author.ID, second.Results[0].ID)
}

func TestGetUserIsSubscribed(t *testing.T) {
	f := newFixture(t, nil)
	users := f.users
	subs := service.NewSubscriptionService(f.db)
	ctx := context.Background()

	_, err := subs.Subscribe(ctx, f.reader.ID, f.author.ID, 0)
	require.NoError(t, err)

	seen, err := users.GetUser(ctx, &f.reader.ID, f.author.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsSubscribed)
	assert.Equal(t, "author", seen.Username)

	anon, err := users.GetUser(ctx, nil, f.author.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	_, err = users.GetUser(ctx, nil, uuid.New())
	assert.ErrorIs(t, err, exceptions.ErrNotFound)
}
