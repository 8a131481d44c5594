package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func assertDuplicate(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		assert.Contains(t, err.Error(), "UNIQUE constraint failed")
	}
}

func TestUserGetsUUIDOnCreate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "ann")
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", user.ID.String())
}

func TestUniqueConstraints(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "cook")
	fan := testhelpers.CreateUser(t, db, "fan")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Soup", map[uint]int{salt.ID: 5})

	t.Run("favorite", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Favorite{UserID: fan.ID, RecipeID: recipe.ID}).Error)
		err := db.Create(&models.Favorite{UserID: fan.ID, RecipeID: recipe.ID}).Error
		assertDuplicate(t, err)
	})

	t.Run("shopping cart", func(t *testing.T) {
		require.NoError(t, db.Create(&models.ShoppingCartEntry{UserID: fan.ID, RecipeID: recipe.ID}).Error)
		err := db.Create(&models.ShoppingCartEntry{UserID: fan.ID, RecipeID: recipe.ID}).Error
		assertDuplicate(t, err)
	})

	t.Run("ingredient per recipe", func(t *testing.T) {
		err := db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 1}).Error
		assertDuplicate(t, err)
	})

	t.Run("follow", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Follow{UserID: fan.ID, AuthorID: author.ID}).Error)
		err := db.Create(&models.Follow{UserID: fan.ID, AuthorID: author.ID}).Error
		assertDuplicate(t, err)
	})
}

func TestFollowRejectsSelf(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "narcissus")

	err := db.Create(&models.Follow{UserID: user.ID, AuthorID: user.ID}).Error
	assert.Error(t, err)
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "chef")
	fan := testhelpers.CreateUser(t, db, "eater")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Bread", map[uint]int{salt.ID: 2})

	require.NoError(t, db.Create(&models.Favorite{UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCartEntry{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, db.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error)

	for _, model := range []any{&models.Favorite{}, &models.ShoppingCartEntry{}, &models.RecipeIngredient{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows left behind", model)
	}
}

func TestAuthorIsCreateOnly(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "owner")
	other := testhelpers.CreateUser(t, db, "thief")
	recipe := testhelpers.CreateRecipe(t, db, author, "Pie", nil)

	recipe.AuthorID = other.ID
	recipe.Name = "Stolen pie"
	require.NoError(t, db.Omit("Tags", "Ingredients", "Author").Save(recipe).Error)

	var loaded models.Recipe
	require.NoError(t, db.First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Stolen pie", loaded.Name)
	assert.Equal(t, author.ID, loaded.AuthorID)
}
