package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// DefaultPassword is the plain-text password of users created by CreateUser.
const DefaultPassword = "s3cret-pass"

// CreateUser inserts a user whose email and username derive from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        name + "@example.com",
		Username:     name,
		FirstName:    "First " + name,
		LastName:     "Last " + name,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// CreateStaff inserts an administrator.
func CreateStaff(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := CreateUser(t, db, name)
	if err := db.Model(user).Update("is_staff", true).Error; err != nil {
		t.Fatalf("failed to promote %s: %v", name, err)
	}
	user.IsStaff = true
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: "Tag " + slug, Color: "#E26C2D", Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}

// CreateRecipe inserts a recipe directly, bypassing the workflow service.
// amounts maps ingredient ids to quantities.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, amounts map[uint]int, tags ...*models.Tag) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		CookingTime: 10,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return err
		}
		for id, amount := range amounts {
			row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: id, Amount: amount}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		if len(tags) > 0 {
			list := make([]models.Tag, len(tags))
			for i, tag := range tags {
				list[i] = *tag
			}
			return tx.Model(recipe).Association("Tags").Append(list)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}
