package exceptions

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorUnwrapsSentinels(t *testing.T) {
	ve := &ValidationError{}
	ve.AddErr("tags", ErrDuplicateTag)
	ve.Add("name", "must not be empty")

	err := fmt.Errorf("create recipe: %w", ve.ErrOrNil())
	assert.ErrorIs(t, err, ErrDuplicateTag)
	assert.NotErrorIs(t, err, ErrDuplicateIngredient)
	assert.Equal(t, http.StatusBadRequest, Status(err))
	assert.Equal(t, map[string][]string{
		"tags": {"tags must be unique"},
		"name": {"must not be empty"},
	}, ve.FieldMap())
}

func TestEmptyValidationErrorIsNil(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.ErrOrNil())
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{NotFound("recipe", 4), http.StatusNotFound},
		{Conflict("favorite", "1:2"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", ErrForbidden), http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{Invalid("author", ErrSelfSubscription), http.StatusBadRequest},
		{ErrExhaustedIdentifierSpace, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "%v", tc.err)
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "could not find a recipe with id: 4", NotFound("recipe", 4).Error())
	assert.Equal(t, "favorite 1:2 already exists", Conflict("favorite", "1:2").Error())
	assert.ErrorIs(t, Conflict("tag", "x"), ErrConflict)
}
