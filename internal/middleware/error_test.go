package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/exceptions"
)

func errorRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", handler)
	return r
}

func serve(r http.Handler) (*httptest.ResponseRecorder, ErrorResponse) {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	var body ErrorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	return rr, body
}

func TestErrorHandlerRendersTypedErrors(t *testing.T) {
	rr, body := serve(errorRouter(func(c *gin.Context) {
		_ = c.Error(exceptions.NotFound("recipe", 7))
		c.Abort()
	}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "could not find a recipe with id: 7", body.Error)
}

func TestErrorHandlerRendersValidationFields(t *testing.T) {
	rr, body := serve(errorRouter(func(c *gin.Context) {
		ve := &exceptions.ValidationError{}
		ve.AddErr("tags", exceptions.ErrDuplicateTag)
		ve.Add("name", "this field is required")
		_ = c.Error(fmt.Errorf("create: %w", ve))
	}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, map[string][]string{
		"tags": {"tags must be unique"},
		"name": {"this field is required"},
	}, body.Fields)
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	rr, body := serve(errorRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: password authentication failed"))
	}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", body.Error)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	rr, body := serve(errorRouter(func(c *gin.Context) {
		panic("boom")
	}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", body.Error)
}

func TestErrorHandlerLeavesWrittenResponses(t *testing.T) {
	rr, _ := serve(errorRouter(func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	}))
	require.Equal(t, http.StatusTeapot, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}
