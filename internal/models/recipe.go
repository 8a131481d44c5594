package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe owns its ingredient rows; tags are shared through recipe_tags.
type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;index;<-:create"`
	Author      User               `gorm:"constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"size:200;not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null;check:chk_recipe_cooking_time,cooking_time > 0"`
	Image       string             `gorm:"size:255"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"index;<-:create"`
	UpdatedAt   time.Time
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is the join row carrying the per-recipe amount.
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient"`
	Recipe       *Recipe    `gorm:"constraint:OnDelete:CASCADE"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount > 0"`
}

type Favorite struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe;index"`
	Recipe    *Recipe   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type ShoppingCartEntry struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe;index"`
	Recipe    *Recipe   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Follow{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartEntry{},
	}
}
