package fixtures

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/validation"
)

func dataDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "data")
}

func TestDecodeIngredients(t *testing.T) {
	input := `[
		{"name": " Salt ", "measurement_unit": "g"},
		{"name": "salt", "measurement_unit": "g"},
		{"name": "Salt", "measurement_unit": "pinch"},
		{"name": "Flour", "measurement_unit": "kg"}
	]`
	got, err := DecodeIngredients(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Salt", got[0].Name)
	assert.Equal(t, "pinch", got[1].MeasurementUnit)
}

func TestDecodeIngredientsRejectsInvalid(t *testing.T) {
	_, err := DecodeIngredients(strings.NewReader(`[{"name": "Salt"}]`))
	require.Error(t, err)
	var verr *validation.RequestValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields(), "measurement_unit")

	_, err = DecodeIngredients(strings.NewReader(`{"name": "not a list"}`))
	assert.Error(t, err)
}

func TestDecodeTags(t *testing.T) {
	input := `
tags:
  - name: Breakfast
    color: "#e26c2d"
    slug: breakfast
  - name: Lunch
    color: "#49B64E"
    slug: lunch
`
	tags, err := DecodeTags(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "#E26C2D", tags[0].Color)
	assert.Equal(t, "lunch", tags[1].Slug)

	_, err = DecodeTags(strings.NewReader("tags:\n  - name: Bad\n    color: red\n    slug: not a slug\n"))
	assert.Error(t, err)
}

func TestShippedData(t *testing.T) {
	ingredients, err := ReadIngredientsFile(filepath.Join(dataDir(), "ingredients.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, ingredients)

	tags, err := ReadTagsFile(filepath.Join(dataDir(), "tags.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, tags)

	_, err = ReadTagsFile(filepath.Join(dataDir(), "missing.yaml"))
	assert.Error(t, err)
}
