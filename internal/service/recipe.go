package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService validates and persists recipe aggregates.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	limits config.RecipeConfig
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images ImageStore, limits config.RecipeConfig) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		limits: limits,
	}
}

// Create stores a new recipe authored by the viewer. The recipe row, its
// ingredient rows and tag links are written in one transaction.
func (s *RecipeService) Create(ctx context.Context, viewer types.Viewer, req types.CreateRecipeRequest) (*models.Recipe, error) {
	if viewer.IsAnonymous() {
		return nil, apperror.Unauthorized("authentication required")
	}
	if err := s.validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if err := s.validateCookingTime(req.CookingTime); err != nil {
		return nil, err
	}
	if err := s.validateIngredients(req.Ingredients); err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		ID:          uuid.New(),
		AuthorID:    viewer.UserID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       image,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := ensureIngredientsExist(tx, req.Ingredients); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := insertIngredientRows(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
				return fmt.Errorf("failed to link tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.discardImage(ctx, image)
		return nil, err
	}

	metrics.RecordRecipeCreated()
	logging.Ctx(ctx).Info().
		Str("recipe_id", recipe.ID.String()).
		Str("author_id", viewer.UserID.String()).
		Int("ingredients", len(req.Ingredients)).
		Msg("recipe created")

	return s.Get(ctx, recipe.ID)
}

// Update applies a partial update. Present tags replace the tag set and
// present ingredients replace every ingredient row; the author never changes.
func (s *RecipeService) Update(ctx context.Context, viewer types.Viewer, id uuid.UUID, req types.UpdateRecipeRequest) (*models.Recipe, error) {
	if viewer.IsAnonymous() {
		return nil, apperror.Unauthorized("authentication required")
	}
	existing, err := s.loadOwned(ctx, viewer, id, "change")
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		if err := s.validateName(*req.Name); err != nil {
			return nil, err
		}
		changes["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Text != nil {
		if err := validateText(*req.Text); err != nil {
			return nil, err
		}
		changes["text"] = *req.Text
	}
	if req.CookingTime != nil {
		if err := s.validateCookingTime(*req.CookingTime); err != nil {
			return nil, err
		}
		changes["cooking_time"] = *req.CookingTime
	}
	if req.Ingredients != nil {
		if err := s.validateIngredients(*req.Ingredients); err != nil {
			return nil, err
		}
	}
	if req.Image != nil {
		image, err := s.saveImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		changes["image"] = image
	}
	changes["updated_at"] = time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if req.Tags != nil {
			tags, err := loadTags(tx, *req.Tags)
			if err != nil {
				return err
			}
			assoc := tx.Model(existing).Association("Tags")
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}

		if req.Ingredients != nil {
			if err := ensureIngredientsExist(tx, *req.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredients: %w", err)
			}
			if err := insertIngredientRows(tx, id, *req.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	newImage, replaced := changes["image"].(string)
	if err != nil {
		if replaced {
			s.discardImage(ctx, newImage)
		}
		return nil, err
	}
	if replaced && existing.Image != newImage {
		s.discardImage(ctx, existing.Image)
	}

	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Str("user_id", viewer.UserID.String()).Msg("recipe updated")
	return s.Get(ctx, id)
}

// Delete removes a recipe together with its links, favorites and cart rows.
func (s *RecipeService) Delete(ctx context.Context, viewer types.Viewer, id uuid.UUID) error {
	if viewer.IsAnonymous() {
		return apperror.Unauthorized("authentication required")
	}
	existing, err := s.loadOwned(ctx, viewer, id, "delete")
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cleanup := []struct {
			name string
			run  func() error
		}{
			{"favorites", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error }},
			{"shopping cart", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartEntry{}).Error }},
			{"ingredients", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error }},
			{"tags", func() error { return tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error }},
			{"recipe", func() error { return tx.Delete(&models.Recipe{}, "id = ?", id).Error }},
		}
		for _, step := range cleanup {
			if err := step.run(); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.discardImage(ctx, existing.Image)

	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Str("user_id", viewer.UserID.String()).Msg("recipe deleted")
	return nil
}

// Get loads the full aggregate: author, tags and ingredient rows.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withAggregate(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// List returns one page of recipes matching filter, newest first.
func (s *RecipeService) List(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageRequest) ([]models.Recipe, int64, error) {
	if viewer.IsAnonymous() && (isTrue(filter.IsFavorited) || isTrue(filter.IsInShoppingCart)) {
		return []models.Recipe{}, 0, nil
	}

	db := s.db.WithContext(ctx)
	filtered := func() *gorm.DB {
		query := db.Model(&models.Recipe{})
		if filter.AuthorID != nil {
			query = query.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tagged := db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			query = query.Where("recipes.id IN (?)", tagged)
		}
		if filter.IsFavorited != nil && !viewer.IsAnonymous() {
			query = membership(query, db.Model(&models.Favorite{}), viewer.UserID, *filter.IsFavorited)
		}
		// A false cart flag does not filter; only is_favorited=0 excludes.
		if isTrue(filter.IsInShoppingCart) && !viewer.IsAnonymous() {
			query = membership(query, db.Model(&models.ShoppingCartEntry{}), viewer.UserID, true)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withAggregate(filtered()).
		Order("recipes.created_at DESC").
		Order("recipes.id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

func membership(query, rows *gorm.DB, userID uuid.UUID, member bool) *gorm.DB {
	ids := rows.Select("recipe_id").Where("user_id = ?", userID)
	if member {
		return query.Where("recipes.id IN (?)", ids)
	}
	return query.Where("recipes.id NOT IN (?)", ids)
}

func withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.slug") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func (s *RecipeService) loadOwned(ctx context.Context, viewer types.Viewer, id uuid.UUID, action string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if !viewer.CanModify(recipe.AuthorID) {
		return nil, apperror.PermissionDenied(fmt.Sprintf("only the author may %s this recipe", action))
	}
	return &recipe, nil
}

func (s *RecipeService) saveImage(ctx context.Context, dataURI string) (string, error) {
	if dataURI == "" {
		return "", nil
	}
	if s.images == nil {
		return "", apperror.Validation("image", apperror.CodeInvalid, "image uploads are disabled")
	}
	return s.images.Save(ctx, dataURI)
}

// discardImage removes an image no recipe points to. Failures are logged
// and otherwise ignored.
func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to delete orphaned image")
	}
}

func (s *RecipeService) validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.Validation("name", apperror.CodeRequired, "name is required")
	}
	if len([]rune(name)) > 200 {
		return apperror.Validation("name", apperror.CodeOutOfRange, "name must be at most 200 characters")
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperror.Validation("text", apperror.CodeRequired, "text is required")
	}
	return nil
}

func (s *RecipeService) validateCookingTime(minutes int) error {
	if minutes < s.limits.MinCookingTime || minutes > s.limits.MaxCookingTime {
		return apperror.Validation("cooking_time", apperror.CodeOutOfRange,
			fmt.Sprintf("cooking time must be between %d and %d", s.limits.MinCookingTime, s.limits.MaxCookingTime))
	}
	return nil
}

func (s *RecipeService) validateIngredients(entries []types.IngredientAmount) error {
	if len(entries) == 0 {
		return apperror.Validation("ingredients", apperror.CodeRequired, "at least one ingredient is required")
	}
	seen := make(map[uint]struct{}, len(entries))
	for i, entry := range entries {
		field := fmt.Sprintf("ingredients[%d]", i)
		if entry.ID == 0 {
			return apperror.Validation(field+".id", apperror.CodeRequired, "ingredient id is required")
		}
		if entry.Amount < s.limits.MinAmount || entry.Amount > s.limits.MaxAmount {
			return apperror.Validation(field+".amount", apperror.CodeOutOfRange,
				fmt.Sprintf("amount must be between %d and %d", s.limits.MinAmount, s.limits.MaxAmount))
		}
		if _, dup := seen[entry.ID]; dup {
			return apperror.Validation("ingredients", apperror.CodeDuplicateIngredient,
				fmt.Sprintf("ingredient %d is listed more than once", entry.ID))
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

// loadTags resolves ids to tags. Repeated ids collapse to one link.
func loadTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if missing, ok := firstMissing(ids, tags, func(t models.Tag) uint { return t.ID }); ok {
		return nil, apperror.NotFound("tag", missing)
	}
	return tags, nil
}

func ensureIngredientsExist(tx *gorm.DB, entries []types.IngredientAmount) error {
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	var found []models.Ingredient
	if err := tx.Select("id").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	if missing, ok := firstMissing(ids, found, func(i models.Ingredient) uint { return i.ID }); ok {
		return apperror.NotFound("ingredient", missing)
	}
	return nil
}

func insertIngredientRows(tx *gorm.DB, recipeID uuid.UUID, entries []types.IngredientAmount) error {
	rows := make([]models.RecipeIngredient, len(entries))
	for i, e := range entries {
		rows[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: e.ID, Amount: e.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Validation("ingredients", apperror.CodeDuplicateIngredient, "ingredient is listed more than once")
		}
		return fmt.Errorf("failed to store ingredients: %w", err)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstMissing[T any](want []uint, got []T, id func(T) uint) (uint, bool) {
	have := make(map[uint]struct{}, len(got))
	for _, item := range got {
		have[id(item)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := have[w]; !ok {
			return w, true
		}
	}
	return 0, false
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
