package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
)

func TestSetupTestDBIsolated(t *testing.T) {
	first := SetupTestDB(t)
	second := SetupTestDB(t)

	CreateUser(t, first, "alice")

	var count int64
	require.NoError(t, second.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeFixture(t *testing.T) {
	db := SetupTestDB(t)
	author := CreateUser(t, db, "bob")
	salt := CreateIngredient(t, db, "Salt", "g")
	tag := CreateTag(t, db, "breakfast")

	recipe := CreateRecipe(t, db, author, "Eggs", map[uint]int{salt.ID: 3}, tag)

	var loaded models.Recipe
	require.NoError(t, db.Preload("Tags").Preload("Ingredients").First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, author.ID, loaded.AuthorID)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, 3, loaded.Ingredients[0].Amount)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "breakfast", loaded.Tags[0].Slug)
}
