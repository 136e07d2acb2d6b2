package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "s3cret-pass",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	req := registerRequest("ivan")
	req.Email = "  Ivan@Example.com "
	user, err := auth.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	loggedIn, err := auth.Login(ctx, "IVAN@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = auth.Login(ctx, "ivan@example.com", "wrong")
	assert.ErrorIs(t, err, exceptions.ErrUnauthorized)
	_, err = auth.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, exceptions.ErrUnauthorized)
}

func TestRegisterConflicts(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("ivan"))
	require.NoError(t, err)

	sameEmail := registerRequest("other")
	sameEmail.Email = "ivan@example.com"
	_, err = auth.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, exceptions.ErrConflict)

	sameName := registerRequest("ivan")
	sameName.Email = "else@example.com"
	_, err = auth.Register(ctx, sameName)
	assert.ErrorIs(t, err, exceptions.ErrConflict)
}

func TestTokenRoundTrip(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateTestUser(t, db, "staffer")
	user.IsStaff = true

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "staffer", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejects(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateTestUser(t, db, "someone")

	other, err := service.NewAuthService(db, "other-secret").GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(other)
	assert.ErrorIs(t, err, exceptions.ErrUnauthorized)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		UserID:           user.ID,
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.ErrorIs(t, err, exceptions.ErrUnauthorized)

	_, err = auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, exceptions.ErrUnauthorized)
}

func TestGetUserByID(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateTestUser(t, db, "found")

	got, err := auth.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "found", got.Username)
}
