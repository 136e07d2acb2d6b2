package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type mockedAPI struct {
	router       *gin.Engine
	auth         *mocks.MockAuthService
	recipes      *mocks.MockRecipeService
	memberships  *mocks.MockMembershipService
	shoppingList *mocks.MockShoppingListService
	links        *mocks.MockShortLinkService
	policy       *mocks.MockMutationPolicy
	userID       uuid.UUID
}

func setupMockedAPI(t *testing.T) *mockedAPI {
	gin.SetMode(gin.TestMode)
	m := &mockedAPI{
		auth:         new(mocks.MockAuthService),
		recipes:      new(mocks.MockRecipeService),
		memberships:  new(mocks.MockMembershipService),
		shoppingList: new(mocks.MockShoppingListService),
		links:        new(mocks.MockShortLinkService),
		policy:       new(mocks.MockMutationPolicy),
		userID:       uuid.New(),
	}
	m.auth.On("ValidateToken", "valid").Return(&types.TokenClaims{UserID: m.userID, Username: "cook"}, nil).Maybe()
	m.auth.On("ValidateToken", mock.Anything).Return(nil, exceptions.ErrUnauthorized).Maybe()

	m.router = gin.New()
	m.router.Use(middleware.ErrorHandler())
	RegisterRoutes(m.router, &Services{
		Auth:         m.auth,
		Recipes:      m.recipes,
		Memberships:  m.memberships,
		ShoppingList: m.shoppingList,
		ShortLinks:   m.links,
		Policy:       m.policy,
	}, nil)

	t.Cleanup(func() {
		m.recipes.AssertExpectations(t)
		m.memberships.AssertExpectations(t)
		m.shoppingList.AssertExpectations(t)
		m.links.AssertExpectations(t)
		m.policy.AssertExpectations(t)
	})
	return m
}

func (m *mockedAPI) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)
	return w
}

func TestListRecipesParsesFilter(t *testing.T) {
	m := setupMockedAPI(t)
	authorID := uuid.New()
	viewer := m.userID

	want := types.RecipeFilter{
		AuthorID:         &authorID,
		TagSlugs:         []string{"breakfast", "dinner"},
		IsFavorited:      true,
		IsInShoppingCart: false,
		Page:             2,
		Limit:            3,
	}
	m.recipes.On("ListRecipes", mock.Anything, &viewer, want).
		Return(&types.Page[types.RecipeDetail]{Count: 0, Results: []types.RecipeDetail{}}, nil).Once()

	w := m.get("/api/recipes?author="+authorID.String()+"&tags=breakfast&tags=dinner&is_favorited=true&is_in_shopping_cart=0&page=2&limit=3", "valid")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"count":0,"results":[]}`, w.Body.String())
}

func TestListRecipesAnonymousViewer(t *testing.T) {
	m := setupMockedAPI(t)
	m.recipes.On("ListRecipes", mock.Anything, (*uuid.UUID)(nil), types.RecipeFilter{}).
		Return(&types.Page[types.RecipeDetail]{Results: []types.RecipeDetail{}}, nil).Once()

	w := m.get("/api/recipes?page=abc&limit=-4", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	m := setupMockedAPI(t)
	m.recipes.On("GetRecipe", mock.Anything, (*uuid.UUID)(nil), uint(7)).
		Return(nil, errors.New("connection reset by peer")).Once()

	w := m.get("/api/recipes/7", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestDeleteForbiddenSkipsService(t *testing.T) {
	m := setupMockedAPI(t)
	authorID := uuid.New()
	m.recipes.On("GetRecipeAuthor", mock.Anything, uint(3)).Return(authorID, nil).Once()
	m.policy.On("CanMutate", m.userID, false, authorID).Return(false).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/recipes/3", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	m.recipes.AssertNotCalled(t, "DeleteRecipe", mock.Anything, mock.Anything)
}

func TestAddFavoriteUsesKind(t *testing.T) {
	m := setupMockedAPI(t)
	m.memberships.On("Add", mock.Anything, models.Favorite, m.userID, uint(5)).
		Return(&types.RecipeShort{ID: 5, Name: "Soup"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/5/favorite", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":5,"name":"Soup","image":"","cooking_time":0}`, w.Body.String())
}

func TestShortLinkRedirectWithMock(t *testing.T) {
	m := setupMockedAPI(t)
	m.links.On("Resolve", mock.Anything, "Ab12").Return(uint(7), nil).Once()
	m.links.On("Resolve", mock.Anything, "none").Return(uint(0), exceptions.NotFound("short link", "none")).Once()

	w := m.get("/s/Ab12", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes/7/", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, m.get("/s/none", "").Code)
}

func TestConfiguredBaseURLIsKept(t *testing.T) {
	m := setupMockedAPI(t)
	m.links.On("Link", mock.Anything, uint(9)).Return("https://foodgram.example/s/Zz99", nil).Once()

	w := m.get("/api/recipes/9/get-link", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"short-link":"https://foodgram.example/s/Zz99"}`, w.Body.String())
}

func TestDownloadShoppingCartFailure(t *testing.T) {
	m := setupMockedAPI(t)
	m.shoppingList.On("Download", mock.Anything, m.userID).Return("", errors.New("read timeout")).Once()

	w := m.get("/api/recipes/download_shopping_cart", "valid")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
