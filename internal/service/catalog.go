package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogService serves tags and ingredients, the read-mostly reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns every tag ordered by slug.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("slug").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("tag", id)
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}

// SearchIngredients matches names starting with prefix, case-insensitively.
// An empty prefix lists everything.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	// sqlite's LOWER folds ASCII only, so other scripts are matched here.
	foldInGo := prefix != "" && s.db.Dialector.Name() == "sqlite" && !isASCII(prefix)
	if prefix != "" && !foldInGo {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	if foldInGo {
		matched := ingredients[:0]
		for _, ing := range ingredients {
			if strings.HasPrefix(strings.ToLower(ing.Name), prefix) {
				matched = append(matched, ing)
			}
		}
		ingredients = matched
	}
	return ingredients, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("ingredient", id)
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ingredient, nil
}

// UpsertTags inserts tags, updating name and color of existing slugs.
func (s *CatalogService) UpsertTags(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "color"}),
	}).Create(&tags).Error
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	return nil
}

// ImportIngredients inserts ingredients, skipping (name, unit) pairs that
// already exist. It returns the number of new rows.
func (s *CatalogService) ImportIngredients(ctx context.Context, ingredients []models.Ingredient, batchSize int) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
