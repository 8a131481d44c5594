package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestTags(t *testing.T) {
	s := setupTestServer(t)
	testhelpers.CreateTag(t, s.db, "lunch")
	breakfast := testhelpers.CreateTag(t, s.db, "breakfast")

	w := s.do(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]models.Tag](t, w)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	w = s.do(t, http.MethodGet, "/api/tags/"+strconv.Itoa(int(breakfast.ID)), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, breakfast.Color, decode[models.Tag](t, w).Color)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/tags/999", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/tags/abc", "", nil).Code)
}

func TestIngredientSearch(t *testing.T) {
	s := setupTestServer(t)
	salt := testhelpers.CreateIngredient(t, s.db, "Salt", "g")
	testhelpers.CreateIngredient(t, s.db, "Sugar", "g")
	testhelpers.CreateIngredient(t, s.db, "Flour", "kg")

	w := s.do(t, http.MethodGet, "/api/ingredients?name=s", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]models.Ingredient](t, w)
	require.Len(t, found, 2)
	assert.Equal(t, "Salt", found[0].Name)
	assert.Equal(t, "Sugar", found[1].Name)

	w = s.do(t, http.MethodGet, "/api/ingredients", "", nil)
	assert.Len(t, decode[[]models.Ingredient](t, w), 3)

	w = s.do(t, http.MethodGet, "/api/ingredients/"+strconv.Itoa(int(salt.ID)), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g", decode[models.Ingredient](t, w).MeasurementUnit)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/ingredients/0", "", nil).Code)
}
