package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// InteractionKind selects the per-user recipe list an interaction targets.
type InteractionKind string

const (
	KindFavorite InteractionKind = "favorite"
	KindCart     InteractionKind = "cart"
)

func (k InteractionKind) row(userID, recipeID uuid.UUID) (any, error) {
	switch k {
	case KindFavorite:
		return &models.Favorite{UserID: userID, RecipeID: recipeID}, nil
	case KindCart:
		return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}, nil
	default:
		return nil, fmt.Errorf("unknown interaction kind %q", k)
	}
}

func (k InteractionKind) label() string {
	if k == KindCart {
		return "shopping cart"
	}
	return "favorites"
}

// RecipeFlags holds the viewer-relative booleans of one recipe.
type RecipeFlags struct {
	Favorited bool
	InCart    bool
}

// InteractionService stores favorite and shopping cart membership.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// Add puts the recipe into the viewer's list. A second add of the same
// recipe is rejected by the unique index and reported as a validation error.
func (s *InteractionService) Add(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID, kind InteractionKind) (*models.Recipe, error) {
	if viewer.IsAnonymous() {
		return nil, apperror.Unauthorized("authentication required")
	}
	row, err := kind.row(viewer.UserID, recipeID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := db.Omit("User", "Recipe").Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Validation("recipe", apperror.CodeAlreadyAdded,
				fmt.Sprintf("recipe is already in %s", kind.label()))
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", kind.label(), err)
	}

	metrics.RecordInteraction(string(kind), "add")
	return &recipe, nil
}

// Remove takes the recipe out of the viewer's list.
func (s *InteractionService) Remove(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID, kind InteractionKind) error {
	if viewer.IsAnonymous() {
		return apperror.Unauthorized("authentication required")
	}
	row, err := kind.row(viewer.UserID, recipeID)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var exists int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to get recipe: %w", err)
	}
	if exists == 0 {
		return apperror.NotFound("recipe", recipeID)
	}

	result := db.Where("user_id = ? AND recipe_id = ?", viewer.UserID, recipeID).Delete(row)
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", kind.label(), result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Validation("recipe", apperror.CodeNotPresent,
			fmt.Sprintf("recipe is not in %s", kind.label()))
	}

	metrics.RecordInteraction(string(kind), "remove")
	return nil
}

// Flags computes is_favorited and is_in_shopping_cart for recipeIDs with one
// query per list. Anonymous viewers get no flags.
func (s *InteractionService) Flags(ctx context.Context, viewer types.Viewer, recipeIDs []uuid.UUID) (map[uuid.UUID]RecipeFlags, error) {
	out := make(map[uuid.UUID]RecipeFlags, len(recipeIDs))
	if viewer.IsAnonymous() || len(recipeIDs) == 0 {
		return out, nil
	}

	db := s.db.WithContext(ctx)
	var favorited, inCart []uuid.UUID
	err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewer.UserID, recipeIDs).
		Pluck("recipe_id", &favorited).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	err = db.Model(&models.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", viewer.UserID, recipeIDs).
		Pluck("recipe_id", &inCart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}

	for _, id := range favorited {
		f := out[id]
		f.Favorited = true
		out[id] = f
	}
	for _, id := range inCart {
		f := out[id]
		f.InCart = true
		out[id] = f
	}
	return out, nil
}
