package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerBody() map[string]any {
	return map[string]any{
		"email":      "Cook@Example.com",
		"username":   "cook",
		"first_name": "Ada",
		"last_name":  "Cook",
		"password":   "correct-horse",
	}
}

func TestRegister(t *testing.T) {
	a := setupTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/auth/register", "", registerBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode[map[string]any](t, w)
	assert.Equal(t, "cook@example.com", body["email"])
	assert.Equal(t, "cook", body["username"])
	assert.Equal(t, false, body["is_subscribed"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	w = a.do(t, http.MethodPost, "/api/auth/register", "", registerBody())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	a := setupTestAPI(t)

	req := registerBody()
	delete(req, "password")
	req["email"] = "not-an-email"

	w := a.do(t, http.MethodPost, "/api/auth/register", "", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[middleware.ErrorResponse](t, w)
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, []string{"this field is required"}, body.Fields["password"])
	assert.Equal(t, []string{"enter a valid email address"}, body.Fields["email"])
}

func TestRegisterMalformedBody(t *testing.T) {
	a := setupTestAPI(t)
	w := a.do(t, http.MethodPost, "/api/auth/register", "", "just a string")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[middleware.ErrorResponse](t, w).Fields, "body")
}

func TestLogin(t *testing.T) {
	a := setupTestAPI(t)
	a.user(t, "chef")

	w := a.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{
		"email":    "chef@example.com",
		"password": testhelpers.TestPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[types.LoginResponse](t, w).AuthToken
	require.NotEmpty(t, token)

	w = a.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chef", decode[types.UserResponse](t, w).Username)
}

func TestLoginWrongPassword(t *testing.T) {
	a := setupTestAPI(t)
	a.user(t, "chef")

	w := a.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{
		"email":    "chef@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	a := setupTestAPI(t)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/users/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/users/me", "garbage", nil).Code)
}
